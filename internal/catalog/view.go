package catalog

import (
	"net/url"
	"path"
	"strings"
)

// Card colors.
const (
	DefaultColor     = "#3498db"
	UnavailableColor = "#95a5a6"
)

// Card is the view model of one catalog card.
type Card struct {
	Title       string // subject title as stored, used in links
	DisplayName string // localized title
	Description string
	Button      string
	Available   bool
	ImageURL    string
	Color       string
}

// NewCard shapes an entry for display. text resolves localization keys.
func NewCard(e Entry, text func(key string) string, displayName string) Card {
	c := Card{
		Title:       e.Title,
		DisplayName: displayName,
		Available:   e.Available,
	}
	if c.DisplayName == "" {
		c.DisplayName = e.Title
	}

	if e.Available {
		c.Description = e.Description
		if c.Description == "" {
			c.Description = text("card_resources_available")
		}
		c.Button = text("card_view_files")
	} else {
		c.Description = text("card_not_available")
		c.Button = text("card_unavailable")
	}

	switch {
	case e.Image != "":
		c.ImageURL = "/static/images/" + url.PathEscape(path.Base(e.Image))
	case e.Available:
		c.Color = e.Color
		if c.Color == "" {
			c.Color = DefaultColor
		}
	default:
		c.Color = UnavailableColor
	}
	return c
}

// YearOption is one entry of a year selector.
type YearOption struct {
	Value    string
	Label    string
	Selected bool
}

// YearOptions builds the explorer's year dropdown for a subject. An "all
// years" option is offered only when the subject spans several years.
func YearOptions(years []string, selected string, text func(key string) string) []YearOption {
	opts := make([]YearOption, 0, len(years)+1)
	if len(years) > 1 {
		opts = append(opts, YearOption{
			Value:    AllYears,
			Label:    text("all_years"),
			Selected: selected == AllYears,
		})
	}
	for _, y := range years {
		opts = append(opts, YearOption{
			Value:    y,
			Label:    YearLabel(y, text("year_label")),
			Selected: selected == y,
		})
	}
	return opts
}

// YearLabel formats a year tag as "S1 (Year 1)".
func YearLabel(tag, word string) string {
	return tag + " (" + word + " " + strings.Replace(tag, "S", "", 1) + ")"
}

// ResolveYear checks a saved year against the years a subject offers. When
// the saved year is not offered it falls back to AllYears for multi-year
// subjects and to the only year otherwise; changed reports that the caller
// should persist the corrected value.
func ResolveYear(saved string, years []string) (year string, changed bool) {
	if saved == "" {
		saved = AllYears
	}
	if len(years) == 0 || saved == AllYears {
		return saved, false
	}
	for _, y := range years {
		if y == saved {
			return saved, false
		}
	}
	if len(years) > 1 {
		return AllYears, true
	}
	return years[0], true
}
