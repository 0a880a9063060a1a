package i18n

import "golang.org/x/text/cases"

// SameName reports whether two subject or folder names are equal under
// Unicode case folding, so "Mathématiques" matches "MATHÉMATIQUES".
func SameName(a, b string) bool {
	f := cases.Fold()
	return f.String(a) == f.String(b)
}
