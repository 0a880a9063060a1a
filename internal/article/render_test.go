package article_test

import (
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/p-n-ai/syllabus-plus/internal/article"
)

func uiText(key string) string {
	return map[string]string{
		"ui_widget_default_title":       "Interactive Demo",
		"ui_widget_default_description": "Click the Green Flag to start.",
	}[key]
}

type failingMath struct{}

func (failingMath) Inline(string) (template.HTML, error) { return "", errors.New("boom") }
func (failingMath) Block(string) (template.HTML, error)  { return "", errors.New("boom") }

func TestInline(t *testing.T) {
	r := article.NewRenderer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no math here", "no math here"},
		{"empty", "", ""},
		{"one span", "Area is $a^2$.", `Area is <span class="math-inline" data-tex="a^2">a^2</span>.`},
		{"two spans", "$x$ and $y$", `<span class="math-inline" data-tex="x">x</span> and <span class="math-inline" data-tex="y">y</span>`},
		{"unbalanced braces stay", "bad $\\frac{1$ here", "bad $\\frac{1$ here"},
		{"lone dollar", "costs $5", "costs $5"},
		{"escapes tex", "$a<b$", `<span class="math-inline" data-tex="a&lt;b">a&lt;b</span>`},
		{"keeps safe markup", "<b>bold</b> $x$", `<b>bold</b> <span class="math-inline" data-tex="x">x</span>`},
		{"strips script", "hi<script>alert(1)</script>", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(r.Inline(tt.in)); got != tt.want {
				t.Errorf("Inline(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestInline_RendererFailureKeepsText(t *testing.T) {
	r := article.NewRenderer(article.WithMath(failingMath{}))
	if got := string(r.Inline("see $x^2$ now")); got != "see $x^2$ now" {
		t.Errorf("Inline() = %q, want delimited text untouched", got)
	}
}

func TestRender(t *testing.T) {
	doc := mustParse(t, sampleArticle)
	v := article.NewRenderer().Render(doc, "fr", uiText)

	if string(v.Title) != "Équations linéaires" {
		t.Errorf("Title = %q", v.Title)
	}
	if v.Updated != "2026-01-15" {
		t.Errorf("Updated = %q", v.Updated)
	}
	if len(v.Sections) != 5 {
		t.Fatalf("len(Sections) = %d", len(v.Sections))
	}

	intro := v.Sections[0]
	if !strings.Contains(string(intro.Body), `data-tex="ax+b=0"`) {
		t.Errorf("intro body = %q, want inline math", intro.Body)
	}

	formula := v.Sections[1]
	if formula.Heading != "Solution générale" {
		t.Errorf("formula heading = %q", formula.Heading)
	}
	if !strings.Contains(string(formula.Formula), `class="math-block"`) {
		t.Errorf("formula = %q, want block math", formula.Formula)
	}

	w := v.Sections[3].Widget
	if w == nil {
		t.Fatal("scratch section has no widget")
	}
	if w.ProjectID != "123456" || w.EmbedURL != "https://turbowarp.org/123456/embed?turbo" {
		t.Errorf("widget = %+v", w)
	}
	if w.RemixURL != "https://scratch.mit.edu/projects/123456/" {
		t.Errorf("RemixURL = %q", w.RemixURL)
	}
	if w.Title != "Démo" || string(w.Description) != "Click the Green Flag to start." {
		t.Errorf("widget title/description = %q/%q", w.Title, w.Description)
	}

	if got := v.Sections[4].QuizID; got != "quiz-sec-4" {
		t.Errorf("QuizID = %q, want quiz-sec-4", got)
	}
}

func TestRenderSection_Widget(t *testing.T) {
	r := article.NewRenderer()
	tests := []struct {
		name      string
		section   article.Section
		wantEmbed string
		wantTitle string
	}{
		{
			name:      "scratch project",
			section:   article.Section{Type: article.TypeScratch, URL: "https://scratch.mit.edu/projects/42"},
			wantEmbed: "https://scratch.mit.edu/projects/42/embed",
			wantTitle: "Interactive Demo",
		},
		{
			name:      "raw id",
			section:   article.Section{Type: article.TypeScratch, URL: "777", Title: article.Text{"": "Demo"}},
			wantEmbed: "https://scratch.mit.edu/projects/777/embed",
			wantTitle: "Demo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sv := r.RenderSection(0, tt.section, "en", uiText)
			if sv.Widget.EmbedURL != tt.wantEmbed || sv.Widget.Title != tt.wantTitle {
				t.Errorf("widget = %+v", sv.Widget)
			}
		})
	}
}

func TestRenderSection_FormulaFailureShowsSource(t *testing.T) {
	r := article.NewRenderer(article.WithMath(failingMath{}))
	sv := r.RenderSection(2, article.Section{Type: article.TypeFormula, Latex: "a<b"}, "en", uiText)
	if !strings.Contains(string(sv.Formula), "a&lt;b") {
		t.Errorf("Formula = %q, want escaped source", sv.Formula)
	}
}

func TestRenderSection_UnknownType(t *testing.T) {
	sv := article.NewRenderer().RenderSection(1, article.Section{Type: "video", Heading: article.Text{"": "Watch"}}, "en", uiText)
	if sv.Heading != "Watch" || sv.Body != "" || sv.Widget != nil || sv.QuizID != "" {
		t.Errorf("unknown section = %+v", sv)
	}
}
