package i18n

import (
	"golang.org/x/text/language"
)

// Locale names shown in the language switcher.
var localeNames = map[string]string{
	"en": "English",
	"fr": "Français",
	"de": "Deutsch",
}

// Negotiator picks the display locale for a request.
type Negotiator struct {
	supported []string
	ordered   []string // fallback first, matching the matcher's tag order
	matcher   language.Matcher
	fallback  string
}

// NewNegotiator creates a negotiator over the supported locale codes. The
// fallback must be one of them.
func NewNegotiator(supported []string, fallback string) *Negotiator {
	// The first tag is the matcher's default.
	ordered := []string{fallback}
	for _, code := range supported {
		if code != fallback {
			ordered = append(ordered, code)
		}
	}
	tags := make([]language.Tag, len(ordered))
	for i, code := range ordered {
		tags[i] = language.Make(code)
	}
	return &Negotiator{
		supported: append([]string(nil), supported...),
		ordered:   ordered,
		matcher:   language.NewMatcher(tags),
		fallback:  fallback,
	}
}

// Pick returns explicit when it is a supported code, otherwise the best match
// for the Accept-Language header value.
func (n *Negotiator) Pick(explicit, acceptLanguage string) string {
	if n.Supported(explicit) {
		return explicit
	}
	if acceptLanguage == "" {
		return n.fallback
	}
	_, idx := language.MatchStrings(n.matcher, acceptLanguage)
	if idx < 0 || idx >= len(n.ordered) {
		return n.fallback
	}
	return n.ordered[idx]
}

// Supported reports whether code is a supported locale.
func (n *Negotiator) Supported(code string) bool {
	for _, s := range n.supported {
		if s == code {
			return true
		}
	}
	return false
}

// Locales returns the supported codes in display order.
func (n *Negotiator) Locales() []string {
	return append([]string(nil), n.supported...)
}

// LocaleName returns the display name of a locale code.
func LocaleName(code string) string {
	if name, ok := localeNames[code]; ok {
		return name
	}
	return code
}
