// Package article parses wiki article documents and shapes their sections
// for display.
//
// Article fields may carry per-locale variants alongside the base value,
// e.g. "heading" and "heading_fr". Lookups fall back to the base value.
package article

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/p-n-ai/syllabus-plus/internal/quiz"
)

// Section types.
const (
	TypeIntro   = "intro"
	TypeText    = "text"
	TypeFormula = "formula"
	TypeExample = "example"
	TypeScratch = "scratch"
	TypeQuiz    = "quiz"
)

// Text is a localized string: the base value under "" and variants under
// their locale code.
type Text map[string]string

// In returns the text for lang, falling back to the base value.
func (t Text) In(lang string) string {
	if v := t[lang]; v != "" {
		return v
	}
	return t[""]
}

// Document is a parsed article.
type Document struct {
	Title       Text
	LastUpdated string
	Sections    []Section
}

// DisplayTitle returns the title in lang.
func (d *Document) DisplayTitle(lang string) string {
	return d.Title.In(lang)
}

// Section is one structural unit of an article.
type Section struct {
	Type            string
	Heading         Text
	Content         Text
	Latex           string
	URL             string
	TurboMode       bool
	WidgetTitle     Text
	Title           Text
	Description     Text
	QuestionSources []QuestionSource
}

// QuestionSource is a quiz question as stored in the document.
type QuestionSource struct {
	Question Text
	Options  map[string][]string
	Correct  int
}

// OptionsIn returns the options in lang, falling back to the base list.
func (q QuestionSource) OptionsIn(lang string) []string {
	if opts := q.Options[lang]; len(opts) > 0 {
		return opts
	}
	return q.Options[""]
}

// Questions returns the quiz questions of the section in lang. Questions
// that cannot be asked (fewer than two options, correct index out of range)
// are dropped.
func (s Section) Questions(lang string) []quiz.Question {
	out := make([]quiz.Question, 0, len(s.QuestionSources))
	for i, src := range s.QuestionSources {
		q := quiz.Question{
			Prompt:       src.Question.In(lang),
			Options:      append([]string(nil), src.OptionsIn(lang)...),
			CorrectIndex: src.Correct,
		}
		if !q.Valid() {
			slog.Warn("dropping invalid quiz question", "index", i, "options", len(q.Options), "correct", q.CorrectIndex)
			continue
		}
		out = append(out, q)
	}
	return out
}

// UnmarshalJSON decodes a document with localized title variants.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Title = localizedText(raw, "title")
	d.LastUpdated = plainString(raw, "lastUpdated")
	d.Sections = nil
	if msg, ok := raw["sections"]; ok {
		if err := json.Unmarshal(msg, &d.Sections); err != nil {
			return fmt.Errorf("sections: %w", err)
		}
	}
	return nil
}

// UnmarshalJSON decodes a section with localized field variants.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Section{
		Type:        plainString(raw, "type"),
		Heading:     localizedText(raw, "heading"),
		Content:     localizedText(raw, "content"),
		Latex:       plainString(raw, "latex"),
		URL:         plainString(raw, "url"),
		WidgetTitle: localizedText(raw, "widgetTitle"),
		Title:       localizedText(raw, "title"),
		Description: localizedText(raw, "description"),
	}
	if msg, ok := raw["turboMode"]; ok {
		_ = json.Unmarshal(msg, &s.TurboMode)
	}
	if msg, ok := raw["questions"]; ok {
		if err := json.Unmarshal(msg, &s.QuestionSources); err != nil {
			return fmt.Errorf("questions: %w", err)
		}
	}
	return nil
}

// UnmarshalJSON decodes a question with localized prompt and options.
func (q *QuestionSource) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*q = QuestionSource{
		Question: localizedText(raw, "question"),
		Options:  make(map[string][]string),
	}
	for key, msg := range raw {
		lang, ok := variantOf(key, "options")
		if !ok {
			continue
		}
		var opts []string
		if err := json.Unmarshal(msg, &opts); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		q.Options[lang] = opts
	}
	if msg, ok := raw["correct"]; ok {
		if err := json.Unmarshal(msg, &q.Correct); err != nil {
			return fmt.Errorf("correct: %w", err)
		}
	}
	return nil
}

// variantOf reports whether key is base or base_<lang>, returning lang ("" for
// the base field).
func variantOf(key, base string) (string, bool) {
	if key == base {
		return "", true
	}
	lang, ok := strings.CutPrefix(key, base+"_")
	if !ok || lang == "" {
		return "", false
	}
	return lang, true
}

func localizedText(raw map[string]json.RawMessage, base string) Text {
	t := make(Text)
	for key, msg := range raw {
		lang, ok := variantOf(key, base)
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err == nil && s != "" {
			t[lang] = s
		}
	}
	return t
}

func plainString(raw map[string]json.RawMessage, key string) string {
	var s string
	if msg, ok := raw[key]; ok {
		_ = json.Unmarshal(msg, &s)
	}
	return s
}
