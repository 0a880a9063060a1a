package article

import (
	"errors"
	"html"
	"html/template"
	"regexp"
	"strings"
)

// ErrMalformedTeX is returned for TeX the renderer refuses to typeset.
var ErrMalformedTeX = errors.New("malformed TeX")

// inlineMath matches $...$ spans.
var inlineMath = regexp.MustCompile(`\$([^$]+)\$`)

// MathRenderer typesets TeX.
type MathRenderer interface {
	Inline(tex string) (template.HTML, error)
	Block(tex string) (template.HTML, error)
}

// KaTeXMarkup emits placeholder elements that the bundled KaTeX script
// typesets in the browser.
type KaTeXMarkup struct{}

func (KaTeXMarkup) Inline(tex string) (template.HTML, error) {
	return katexElement("span", "math-inline", tex)
}

func (KaTeXMarkup) Block(tex string) (template.HTML, error) {
	return katexElement("div", "math-block", tex)
}

func katexElement(tag, class, tex string) (template.HTML, error) {
	if strings.TrimSpace(tex) == "" || !balanced(tex) {
		return "", ErrMalformedTeX
	}
	esc := html.EscapeString(tex)
	return template.HTML(`<` + tag + ` class="` + class + `" data-tex="` + esc + `">` + esc + `</` + tag + `>`), nil
}

// balanced reports whether braces in tex are balanced, ignoring escaped ones.
func balanced(tex string) bool {
	depth := 0
	for i := 0; i < len(tex); i++ {
		switch tex[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
