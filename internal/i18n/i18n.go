// Package i18n holds the localization table (key -> locale -> text) and
// locale negotiation.
package i18n

import (
	"regexp"
	"strings"

	"github.com/p-n-ai/syllabus-plus/internal/csvdb"
)

// FallbackLocale is consulted when a key has no text for the requested locale.
const FallbackLocale = "en"

var defaultColumns = []string{"en", "fr", "de"}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Table maps keys to per-locale text. A Table is immutable once built and
// safe for concurrent reads.
type Table struct {
	texts map[string]map[string]string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{texts: make(map[string]map[string]string)}
}

// ParseCSV builds a table from a `key;en;fr;de` export. Locale columns are
// taken from the header when it names them.
func ParseCSV(data []byte) *Table {
	text := string(data)
	return FromRows(headerLocales(csvdb.Header(text)), csvdb.Parse(text))
}

// FromRows builds a table from decoded rows whose first field is the key and
// whose remaining fields follow locales. Rows without a key are skipped.
func FromRows(locales []string, rows []csvdb.Row) *Table {
	if len(locales) == 0 {
		locales = defaultColumns
	}
	t := NewTable()
	for _, row := range rows {
		key := row.Field(0)
		if key == "" {
			continue
		}
		set := make(map[string]string, len(locales))
		for i, loc := range locales {
			if v := row.Field(i + 1); v != "" {
				set[loc] = v
			}
		}
		t.texts[key] = set
	}
	return t
}

func headerLocales(header csvdb.Row) []string {
	if header.Len() < 2 || !strings.EqualFold(header.Field(0), "key") {
		return defaultColumns
	}
	locales := make([]string, 0, header.Len()-1)
	for _, h := range header[1:] {
		locales = append(locales, strings.ToLower(h))
	}
	return locales
}

// Merge returns a new table holding t's entries overlaid with other's.
// Per-locale text in other wins.
func (t *Table) Merge(other *Table) *Table {
	out := NewTable()
	for _, src := range []*Table{t, other} {
		if src == nil {
			continue
		}
		for key, set := range src.texts {
			dst, ok := out.texts[key]
			if !ok {
				dst = make(map[string]string, len(set))
				out.texts[key] = dst
			}
			for loc, v := range set {
				dst[loc] = v
			}
		}
	}
	return out
}

// Lookup returns the text for key in locale, falling back to English.
func (t *Table) Lookup(key, locale string) (string, bool) {
	if t == nil {
		return "", false
	}
	set, ok := t.texts[key]
	if !ok {
		return "", false
	}
	if v := set[locale]; v != "" {
		return v, true
	}
	if v := set[FallbackLocale]; v != "" {
		return v, true
	}
	return "", false
}

// Text returns the text for key in locale, or the key itself when the table
// has nothing for it.
func (t *Table) Text(key, locale string) string {
	if v, ok := t.Lookup(key, locale); ok {
		return v
	}
	return key
}

// TextOr is Text with an explicit fallback instead of the key.
func (t *Table) TextOr(key, locale, fallback string) string {
	if v, ok := t.Lookup(key, locale); ok {
		return v
	}
	return fallback
}

// Len returns the number of keys in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.texts)
}

// Bound returns a lookup function fixed to one locale.
func (t *Table) Bound(locale string) func(key string) string {
	return func(key string) string {
		return t.Text(key, locale)
	}
}

// SubjectKey returns the table key that translates a subject title.
func SubjectKey(name string) string {
	return "subject_" + slug(name)
}

// FolderKey returns the table key that translates a folder name.
func FolderKey(name string) string {
	return "folder_" + slug(name)
}

func slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}
