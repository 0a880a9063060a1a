// Package csvdb reads the semicolon-delimited tables of the content database.
//
// The tables are hand-edited exports: fields are separated by ';' with no
// quoting, rows may be ragged, and blank lines are common. The first line of
// every table is a header and is skipped.
package csvdb

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Delimiter separates fields within a row.
const Delimiter = ";"

// ErrHTML is returned when a table download turns out to be an HTML page,
// which is what static hosts serve for missing or private files.
var ErrHTML = errors.New("table is HTML, not CSV")

// Row is one record of a table with every field whitespace-trimmed.
type Row []string

// Field returns the i-th field, or "" when the row is too short.
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Len returns the number of fields in the row.
func (r Row) Len() int {
	return len(r)
}

// SplitRow splits a single line into trimmed fields.
func SplitRow(line string) Row {
	parts := strings.Split(line, Delimiter)
	row := make(Row, len(parts))
	for i, p := range parts {
		row[i] = strings.TrimSpace(p)
	}
	return row
}

// Parse splits text into rows, skipping the header line and blank lines.
func Parse(text string) []Row {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return nil
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, SplitRow(line))
	}
	return rows
}

// Header returns the first line of text as a row.
func Header(text string) Row {
	first, _, _ := strings.Cut(text, "\n")
	return SplitRow(strings.TrimRight(first, "\r"))
}

// Decode parses a downloaded table. Files named *.xlsx are read as
// workbooks; everything else is treated as semicolon-delimited text.
func Decode(name string, data []byte) ([]Row, error) {
	if strings.EqualFold(path.Ext(name), ".xlsx") {
		rows, err := ReadXLSX(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		return rows, nil
	}

	if LooksLikeHTML(data) {
		return nil, fmt.Errorf("decoding %s: %w", name, ErrHTML)
	}
	return Parse(string(data)), nil
}

// LooksLikeHTML reports whether data starts with an HTML document marker.
func LooksLikeHTML(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 64 {
		trimmed = trimmed[:64]
	}
	lower := bytes.ToLower(trimmed)
	return bytes.HasPrefix(lower, []byte("<!doctype")) || bytes.HasPrefix(lower, []byte("<html"))
}
