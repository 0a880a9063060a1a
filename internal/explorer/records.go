// Package explorer builds the per-subject file tree shown in the file
// explorer and the linear file list used for previous/next navigation.
package explorer

import (
	"log/slog"
	"strings"

	"github.com/p-n-ai/syllabus-plus/internal/catalog"
	"github.com/p-n-ai/syllabus-plus/internal/csvdb"
	"github.com/p-n-ai/syllabus-plus/internal/i18n"
)

// Record is one row of the files table.
type Record struct {
	Subject     string
	Year        string
	Path        []string
	DisplayName string // empty until resolved for legacy rows
	Link        string
}

// IsArticle reports whether the record links to an article document.
func (r Record) IsArticle() bool {
	return strings.HasSuffix(r.Link, ".json")
}

// DecodeRecords reads rows of `subject;year;path;displayName;link`. Legacy
// four-column rows `subject;year;path;link` are accepted with an empty
// display name. Rows with fewer than four fields, no subject or no link are
// skipped.
func DecodeRecords(rows []csvdb.Row) []Record {
	records := make([]Record, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if row.Len() < 4 {
			skipped++
			continue
		}

		rec := Record{
			Subject: row.Field(0),
			Year:    row.Field(1),
			Path:    SplitPath(row.Field(2)),
		}
		if row.Len() >= 5 && row.Field(4) != "" {
			rec.DisplayName = row.Field(3)
			rec.Link = row.Field(4)
		} else {
			rec.Link = row.Field(3)
		}

		if rec.Subject == "" || rec.Link == "" {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		slog.Debug("skipped malformed file rows", "count", skipped)
	}
	return records
}

// SplitPath splits a folder path on '/' or '\', dropping blank segments.
func SplitPath(p string) []string {
	fields := strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	segments := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			segments = append(segments, f)
		}
	}
	if len(segments) == 0 {
		return nil
	}
	return segments
}

// Select returns the records of subject offered in year, preserving order.
// Records without a year tag are offered in every year.
func Select(records []Record, subject, year string) []Record {
	var out []Record
	for _, r := range records {
		if !i18n.SameName(r.Subject, subject) {
			continue
		}
		if year != "" && year != catalog.AllYears && r.Year != "" && r.Year != year {
			continue
		}
		out = append(out, r)
	}
	return out
}
