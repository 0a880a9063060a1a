// Package web serves the catalog, the file explorer and the article viewer
// as server-rendered HTML, and drives quiz widgets over form posts or a
// websocket.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/p-n-ai/syllabus-plus/internal/article"
	"github.com/p-n-ai/syllabus-plus/internal/auth"
	"github.com/p-n-ai/syllabus-plus/internal/i18n"
	"github.com/p-n-ai/syllabus-plus/internal/prefs"
	"github.com/p-n-ai/syllabus-plus/internal/quiz"
	"github.com/p-n-ai/syllabus-plus/internal/source"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// maxViews bounds the article views kept for quiz interaction.
const maxViews = 1024

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Deps are the collaborators of the web server. Verifier and Sessions are
// nil when sign-in is disabled.
type Deps struct {
	Content    *source.Content
	Prefs      prefs.Store
	Attempts   quiz.AttemptStore
	Events     quiz.EventLogger
	Verifier   auth.Verifier
	Sessions   *auth.Codec
	Defaults   *i18n.Table
	Negotiator *i18n.Negotiator
	Renderer   *article.Renderer
	Shuffle    bool
	Checks     map[string]HealthCheck
}

// Server handles HTTP requests.
type Server struct {
	deps  Deps
	tmpl  *template.Template
	views *viewRegistry
	mux   *http.ServeMux
}

// New creates a server and its routes.
func New(deps Deps) (*Server, error) {
	if deps.Content == nil {
		return nil, fmt.Errorf("content source is required")
	}
	if deps.Prefs == nil {
		deps.Prefs = prefs.NewMemoryStore()
	}
	if deps.Attempts == nil {
		deps.Attempts = quiz.NewMemoryAttemptStore()
	}
	if deps.Events == nil {
		deps.Events = quiz.NopEventLogger{}
	}
	if deps.Defaults == nil {
		deps.Defaults = i18n.Defaults()
	}
	if deps.Negotiator == nil {
		deps.Negotiator = i18n.NewNegotiator([]string{"en", "fr", "de"}, i18n.FallbackLocale)
	}
	if deps.Renderer == nil {
		deps.Renderer = article.NewRenderer()
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		deps:  deps,
		tmpl:  tmpl,
		views: newViewRegistry(maxViews),
		mux:   http.NewServeMux(),
	}
	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() error {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	s.mux.HandleFunc("GET /healthz", handleHealthz)
	s.mux.HandleFunc("GET /readyz", s.handleReadyz)
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	s.mux.HandleFunc("GET /{$}", s.handleCatalog)
	s.mux.HandleFunc("GET /files", s.handleFiles)
	s.mux.HandleFunc("GET /article", s.handleArticle)
	s.mux.HandleFunc("POST /prefs/year", s.handleSetYear)
	s.mux.HandleFunc("POST /quiz/{view}/{section}/{action}", s.handleQuizAction)
	s.mux.HandleFunc("GET /ws/quiz/{view}", s.handleQuizSocket)
	s.mux.HandleFunc("POST /auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /auth/logout", s.handleLogout)
	return nil
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	var failed []string
	for name, check := range s.deps.Checks {
		if err := check(ctx); err != nil {
			slog.Warn("readiness check failed", "check", name, "error", err)
			failed = append(failed, name)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if len(failed) > 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// render executes a template into a buffer so a failure never leaves a
// half-written page.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
