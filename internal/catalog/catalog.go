// Package catalog models the subject catalog: one entry per subject card,
// filtered by the selected year tag.
package catalog

import (
	"log/slog"
	"strings"

	"github.com/p-n-ai/syllabus-plus/internal/csvdb"
	"github.com/p-n-ai/syllabus-plus/internal/i18n"
)

// AllYears is the year filter value that matches every entry.
const AllYears = "ALL"

// Column positions in the catalog table.
const (
	colTitle = iota
	colDescription
	colAvailable
	colColor
	colImage
	colYears
)

// Entry is one subject card. Entries are read-only after load.
type Entry struct {
	Title       string
	Description string
	Available   bool
	Color       string
	Image       string
	Years       []string
}

// HasYear reports whether the entry is offered in the given year tag.
func (e Entry) HasYear(tag string) bool {
	for _, y := range e.Years {
		if y == tag {
			return true
		}
	}
	return false
}

// FromRows decodes catalog rows. Rows without a title are skipped.
func FromRows(rows []csvdb.Row) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		title := row.Field(colTitle)
		if title == "" {
			slog.Debug("skipping catalog row without title", "fields", row.Len())
			continue
		}
		entries = append(entries, Entry{
			Title:       title,
			Description: row.Field(colDescription),
			Available:   strings.EqualFold(row.Field(colAvailable), "TRUE"),
			Color:       row.Field(colColor),
			Image:       row.Field(colImage),
			Years:       splitYears(row.Field(colYears)),
		})
	}
	return entries
}

func splitYears(field string) []string {
	if field == "" {
		return nil
	}
	var years []string
	for _, y := range strings.Split(field, ",") {
		if y = strings.TrimSpace(y); y != "" {
			years = append(years, y)
		}
	}
	return years
}

// Filter returns the entries offered in year, or all of them for AllYears
// and the empty filter. Order is preserved.
func Filter(year string, entries []Entry) []Entry {
	if year == "" || year == AllYears {
		return append([]Entry(nil), entries...)
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.HasYear(year) {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the entry whose title matches subject ignoring case.
func Find(entries []Entry, subject string) (Entry, bool) {
	for _, e := range entries {
		if i18n.SameName(e.Title, subject) {
			return e, true
		}
	}
	return Entry{}, false
}

// YearTags returns every year tag used by the entries in first-seen order.
func YearTags(entries []Entry) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, e := range entries {
		for _, y := range e.Years {
			if !seen[y] {
				seen[y] = true
				tags = append(tags, y)
			}
		}
	}
	return tags
}
