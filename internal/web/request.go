package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/p-n-ai/syllabus-plus/internal/auth"
	"github.com/p-n-ai/syllabus-plus/internal/i18n"
)

const (
	visitorCookie = "syllabus_visitor"
	sessionCookie = "syllabus_session"

	visitorMaxAge = 365 * 24 * 60 * 60
)

// visitorID returns the visitor id cookie, issuing one when absent.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   visitorMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// existingVisitor returns the visitor id cookie without issuing one.
func existingVisitor(r *http.Request) string {
	c, err := r.Cookie(visitorCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) locale(r *http.Request) string {
	explicit := r.URL.Query().Get("lang")
	if explicit == "" && r.Method == http.MethodPost {
		explicit = r.PostFormValue("lang")
	}
	return s.deps.Negotiator.Pick(explicit, r.Header.Get("Accept-Language"))
}

// table returns the UI strings, preferring the content database's
// localization table over the built-in defaults.
func (s *Server) table(ctx context.Context) *i18n.Table {
	remote, err := s.deps.Content.Localisation(ctx)
	if err != nil {
		slog.Warn("localisation unavailable, using defaults", "error", err)
		return s.deps.Defaults
	}
	return s.deps.Defaults.Merge(remote)
}

func (s *Server) user(r *http.Request) *auth.User {
	if s.deps.Sessions == nil {
		return nil
	}
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	u, err := s.deps.Sessions.Decode(c.Value)
	if err != nil {
		slog.Debug("ignoring session cookie", "error", err)
		return nil
	}
	return &u
}

// page carries what every page's chrome needs.
type page struct {
	Lang        string
	LangName    string
	Locales     []localeLink
	User        *auth.User
	AuthEnabled bool
	HomeURL     string
	ReturnURL   string
	text        func(string) string
}

type localeLink struct {
	Code   string
	Name   string
	URL    string
	Active bool
}

// T returns the UI string for key in the page's locale.
func (p page) T(key string) string {
	return p.text(key)
}

func (s *Server) newPage(r *http.Request, lang string, tbl *i18n.Table) page {
	p := page{
		Lang:        lang,
		LangName:    i18n.LocaleName(lang),
		User:        s.user(r),
		AuthEnabled: s.deps.Verifier != nil && s.deps.Sessions != nil,
		HomeURL:     link("/", lang),
		ReturnURL:   r.URL.RequestURI(),
		text:        tbl.Bound(lang),
	}
	for _, code := range s.deps.Negotiator.Locales() {
		p.Locales = append(p.Locales, localeLink{
			Code:   code,
			Name:   i18n.LocaleName(code),
			URL:    withLang(r.URL, code),
			Active: code == lang,
		})
	}
	return p
}

// link builds an internal URL carrying lang. Empty values are left out.
func link(path, lang string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	q.Set("lang", lang)
	return path + "?" + q.Encode()
}

// withLang rewrites u for another locale. The article view is dropped so its
// quizzes are rebuilt in the new language.
func withLang(u *url.URL, lang string) string {
	q := u.Query()
	q.Set("lang", lang)
	q.Del("view")
	return u.Path + "?" + q.Encode()
}

// safeReturn accepts only local paths as redirect targets.
func safeReturn(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
