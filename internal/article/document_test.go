package article_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/p-n-ai/syllabus-plus/internal/article"
	"github.com/p-n-ai/syllabus-plus/internal/quiz"
)

const sampleArticle = `{
  "title": "Linear equations",
  "title_fr": "Équations linéaires",
  "lastUpdated": "2026-01-15",
  "sections": [
    {"type": "intro", "content": "Solve $ax+b=0$ for x.", "content_de": "Löse $ax+b=0$ nach x."},
    {"type": "formula", "heading": "Solution", "heading_fr": "Solution générale", "latex": "x = -\\frac{b}{a}"},
    {"type": "example", "content": "2x+4=0 gives x=-2"},
    {"type": "scratch", "url": "https://scratch.mit.edu/projects/123456/", "turboMode": true, "widgetTitle_fr": "Démo"},
    {"type": "quiz", "questions": [
      {"question": "2+2?", "question_fr": "2+2 ?", "options": ["3", "4", "5"], "options_fr": ["trois", "quatre", "cinq"], "correct": 1},
      {"question": "Broken", "options": ["a", "b"], "correct": 5}
    ]}
  ]
}`

func mustParse(t *testing.T, data string) *article.Document {
	t.Helper()
	doc, err := article.Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestParse(t *testing.T) {
	doc := mustParse(t, sampleArticle)

	if got := doc.DisplayTitle("fr"); got != "Équations linéaires" {
		t.Errorf("DisplayTitle(fr) = %q", got)
	}
	if got := doc.DisplayTitle("de"); got != "Linear equations" {
		t.Errorf("DisplayTitle(de) = %q, want base title", got)
	}
	if doc.LastUpdated != "2026-01-15" {
		t.Errorf("LastUpdated = %q", doc.LastUpdated)
	}
	if len(doc.Sections) != 5 {
		t.Fatalf("len(Sections) = %d, want 5", len(doc.Sections))
	}

	intro := doc.Sections[0]
	if got := intro.Content.In("de"); got != "Löse $ax+b=0$ nach x." {
		t.Errorf("intro content (de) = %q", got)
	}
	if got := intro.Content.In("fr"); got != "Solve $ax+b=0$ for x." {
		t.Errorf("intro content (fr) = %q, want base", got)
	}

	scratch := doc.Sections[3]
	if !scratch.TurboMode || scratch.WidgetTitle.In("fr") != "Démo" {
		t.Errorf("scratch section = %+v", scratch)
	}
}

func TestSection_Questions(t *testing.T) {
	doc := mustParse(t, sampleArticle)
	quizSection := doc.Sections[4]

	got := quizSection.Questions("fr")
	want := []quiz.Question{
		{Prompt: "2+2 ?", Options: []string{"trois", "quatre", "cinq"}, CorrectIndex: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Questions(fr) mismatch (-want +got):\n%s", diff)
	}

	en := quizSection.Questions("en")
	if len(en) != 1 || en[0].Options[1] != "4" {
		t.Errorf("Questions(en) = %+v", en)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `<!DOCTYPE html>`},
		{"missing title", `{"sections": []}`},
		{"missing sections", `{"title": "x"}`},
		{"section without type", `{"title": "x", "sections": [{"content": "y"}]}`},
		{"quiz without questions", `{"title": "x", "sections": [{"type": "quiz"}]}`},
		{"single option", `{"title": "x", "sections": [{"type": "quiz", "questions": [{"question": "q", "options": ["a"], "correct": 0}]}]}`},
		{"scratch without url", `{"title": "x", "sections": [{"type": "scratch"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := article.Parse([]byte(tt.data))
			if !errors.Is(err, article.ErrInvalidDocument) {
				t.Errorf("Parse() error = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestTitleOf(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"fr", "Équations linéaires"},
		{"en", "Linear equations"},
		{"de", "Linear equations"},
	}
	for _, tt := range tests {
		got, err := article.TitleOf([]byte(sampleArticle), tt.lang)
		if err != nil {
			t.Fatalf("TitleOf() error = %v", err)
		}
		if got != tt.want {
			t.Errorf("TitleOf(%s) = %q, want %q", tt.lang, got, tt.want)
		}
	}

	if _, err := article.TitleOf([]byte("not json"), "en"); err == nil {
		t.Error("TitleOf() should fail on invalid JSON")
	}
}
