package web

import (
	"log/slog"
	"net/http"

	"github.com/p-n-ai/syllabus-plus/internal/catalog"
	"github.com/p-n-ai/syllabus-plus/internal/i18n"
)

type catalogPage struct {
	page
	Year  string
	Years []yearButton
	Cards []cardView
	Error string
}

type yearButton struct {
	Label  string
	URL    string
	Active bool
}

type cardView struct {
	catalog.Card
	URL string
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitor := visitorID(w, r)
	lang := s.locale(r)
	tbl := s.table(ctx)
	data := catalogPage{page: s.newPage(r, lang, tbl)}

	year := r.URL.Query().Get("year")
	if year != "" {
		if err := s.deps.Prefs.SetYear(ctx, visitor, year); err != nil {
			slog.Warn("failed to save year", "visitor", visitor, "error", err)
		}
	} else {
		saved, err := s.deps.Prefs.Year(ctx, visitor)
		if err != nil {
			slog.Warn("failed to read year", "visitor", visitor, "error", err)
		}
		year = saved
	}
	if year == "" {
		year = catalog.AllYears
	}
	data.Year = year

	entries, err := s.deps.Content.Catalog(ctx)
	if err != nil {
		slog.Warn("catalog unavailable", "error", err)
		data.Error = data.T("error_database")
		s.render(w, "catalog.html", data)
		return
	}

	data.Years = append(data.Years, yearButton{
		Label:  data.T("all_years"),
		URL:    link("/", lang, "year", catalog.AllYears),
		Active: year == catalog.AllYears,
	})
	for _, tag := range catalog.YearTags(entries) {
		data.Years = append(data.Years, yearButton{
			Label:  catalog.YearLabel(tag, data.T("year_label")),
			URL:    link("/", lang, "year", tag),
			Active: year == tag,
		})
	}

	for _, e := range catalog.Filter(year, entries) {
		name := tbl.TextOr(i18n.SubjectKey(e.Title), lang, e.Title)
		card := cardView{Card: catalog.NewCard(e, data.T, name)}
		if card.Available {
			card.URL = link("/files", lang, "subject", e.Title)
		}
		data.Cards = append(data.Cards, card)
	}

	slog.Debug("catalog rendered", "year", year, "cards", len(data.Cards), "lang", lang)
	s.render(w, "catalog.html", data)
}
