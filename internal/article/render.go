package article

import (
	"html/template"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Widget defaults used when a scratch section has no title or description.
const (
	widgetTitleKey       = "ui_widget_default_title"
	widgetDescriptionKey = "ui_widget_default_description"
)

var scratchProject = regexp.MustCompile(`projects/(\d+)`)

// Renderer turns documents into view models. It is safe for concurrent use.
type Renderer struct {
	math   MathRenderer
	policy *bluemonday.Policy
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMath sets the math typesetter.
func WithMath(m MathRenderer) RendererOption {
	return func(r *Renderer) {
		r.math = m
	}
}

// NewRenderer creates a renderer using KaTeX placeholders and the
// user-generated-content HTML policy.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		math:   KaTeXMarkup{},
		policy: bluemonday.UGCPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Inline sanitizes author text and typesets its $...$ spans. A span that
// fails to typeset is left as written.
func (r *Renderer) Inline(text string) template.HTML {
	if text == "" {
		return ""
	}

	var b strings.Builder
	last := 0
	for _, m := range inlineMath.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(r.policy.Sanitize(text[last:m[0]]))

		span := text[m[0]:m[1]]
		out, err := r.math.Inline(text[m[2]:m[3]])
		if err != nil {
			slog.Debug("inline math left as text", "tex", span, "error", err)
			b.WriteString(template.HTMLEscapeString(span))
		} else {
			b.WriteString(string(out))
		}
		last = m[1]
	}
	b.WriteString(r.policy.Sanitize(text[last:]))
	return template.HTML(b.String())
}

// block typesets display math, falling back to the escaped source.
func (r *Renderer) block(tex string) template.HTML {
	out, err := r.math.Block(tex)
	if err != nil {
		slog.Warn("formula left as text", "error", err)
		return template.HTML(`<pre class="math-raw">` + template.HTMLEscapeString(tex) + `</pre>`)
	}
	return out
}

// View is a rendered article.
type View struct {
	Title    template.HTML
	Updated  string
	Sections []SectionView
}

// SectionView is one rendered section. Only the fields of its Type are set.
type SectionView struct {
	Index   int
	Type    string
	Heading string
	Body    template.HTML // intro, text, formula, example
	Formula template.HTML // formula
	Widget  *Widget       // scratch
	QuizID  string        // quiz
}

// Widget is an embedded Scratch project.
type Widget struct {
	ProjectID   string
	EmbedURL    string
	RemixURL    string
	Title       string
	Description template.HTML
}

// QuizID names the quiz of the section at index.
func QuizID(index int) string {
	return "quiz-sec-" + strconv.Itoa(index)
}

// Render shapes doc for display in lang. text resolves UI strings.
func (r *Renderer) Render(doc *Document, lang string, text func(key string) string) View {
	v := View{
		Title:    r.Inline(doc.DisplayTitle(lang)),
		Updated:  doc.LastUpdated,
		Sections: make([]SectionView, 0, len(doc.Sections)),
	}
	for i, s := range doc.Sections {
		v.Sections = append(v.Sections, r.RenderSection(i, s, lang, text))
	}
	return v
}

// RenderSection shapes one section.
func (r *Renderer) RenderSection(index int, s Section, lang string, text func(key string) string) SectionView {
	sv := SectionView{
		Index:   index,
		Type:    s.Type,
		Heading: s.Heading.In(lang),
	}

	switch s.Type {
	case TypeIntro, TypeText, TypeExample:
		sv.Body = r.Inline(s.Content.In(lang))
	case TypeFormula:
		sv.Body = r.Inline(s.Content.In(lang))
		if s.Latex != "" {
			sv.Formula = r.block(s.Latex)
		}
	case TypeScratch:
		sv.Widget = r.widget(s, lang, text)
	case TypeQuiz:
		sv.QuizID = QuizID(index)
	default:
		slog.Debug("unknown section type", "type", s.Type, "index", index)
	}
	return sv
}

func (r *Renderer) widget(s Section, lang string, text func(key string) string) *Widget {
	id := s.URL
	if m := scratchProject.FindStringSubmatch(s.URL); m != nil {
		id = m[1]
	}

	w := &Widget{
		ProjectID: id,
		EmbedURL:  "https://scratch.mit.edu/projects/" + id + "/embed",
		RemixURL:  "https://scratch.mit.edu/projects/" + id + "/",
	}
	if s.TurboMode {
		w.EmbedURL = "https://turbowarp.org/" + id + "/embed?turbo"
	}

	w.Title = s.WidgetTitle.In(lang)
	if w.Title == "" {
		w.Title = s.Title.In(lang)
	}
	if w.Title == "" {
		w.Title = text(widgetTitleKey)
	}

	if desc := s.Description.In(lang); desc != "" {
		w.Description = r.Inline(desc)
	} else {
		w.Description = template.HTML(template.HTMLEscapeString(text(widgetDescriptionKey)))
	}
	return w
}
