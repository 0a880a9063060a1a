package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/p-n-ai/syllabus-plus/internal/article"
	"github.com/p-n-ai/syllabus-plus/internal/auth"
	"github.com/p-n-ai/syllabus-plus/internal/i18n"
	"github.com/p-n-ai/syllabus-plus/internal/platform/cache"
	"github.com/p-n-ai/syllabus-plus/internal/platform/config"
	"github.com/p-n-ai/syllabus-plus/internal/platform/database"
	"github.com/p-n-ai/syllabus-plus/internal/prefs"
	"github.com/p-n-ai/syllabus-plus/internal/quiz"
	"github.com/p-n-ai/syllabus-plus/internal/source"
	"github.com/p-n-ai/syllabus-plus/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(os.Stdout, cfg.Log))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newLogger builds the process logger from the log settings.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// app is the wired application and the resources it must release.
type app struct {
	handler http.Handler
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp connects the optional backends and builds the web server. Without
// a database or cache URL the in-memory stores are used.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	deps := web.Deps{
		Negotiator: i18n.NewNegotiator(config.SupportedLocales, cfg.DefaultLocale),
		Renderer:   article.NewRenderer(),
		Shuffle:    cfg.Quiz.Shuffle,
		Checks:     map[string]web.HealthCheck{},
	}

	var src source.Source
	if cfg.Content.Dir != "" {
		dir, err := source.NewDirSource(cfg.Content.Dir)
		if err != nil {
			return nil, err
		}
		src = dir
	} else {
		src = source.NewHTTPSource(cfg.Content.BaseURL, source.WithCacheBust(cfg.Content.CacheTTL == 0))
		slog.Info("using remote content", "base_url", cfg.Content.BaseURL)
	}

	var docStore source.Store = source.NewMemoryStore()
	deps.Prefs = prefs.NewMemoryStore()
	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to cache: %w", err)
		}
		a.closers = append(a.closers, func() { c.Close() })
		docStore = c
		store, err := prefs.NewRedisStore(c)
		if err != nil {
			a.Close()
			return nil, err
		}
		deps.Prefs = store
		deps.Checks["cache"] = c.HealthCheck
		slog.Info("cache connected")
	}
	deps.Content = source.NewContent(source.NewCached(src, docStore, cfg.Content.CacheTTL), source.Layout{
		CatalogFile:      cfg.Content.CatalogFile,
		FilesFile:        cfg.Content.FilesFile,
		LocalisationFile: cfg.Content.LocalisationFile,
		ArticlesDir:      cfg.Content.ArticlesDir,
	})

	deps.Attempts = quiz.NewMemoryAttemptStore()
	deps.Events = quiz.NopEventLogger{}
	if cfg.Database.URL != "" {
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.Migrate(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		attempts, err := quiz.NewPostgresAttemptStore(db.Pool)
		if err != nil {
			a.Close()
			return nil, err
		}
		deps.Attempts = attempts
		deps.Events = quiz.NewPostgresEventLogger(db.Pool)
		deps.Checks["database"] = db.HealthCheck
		slog.Info("database connected")
	}

	if cfg.AuthEnabled() {
		codec, err := auth.NewCodec(cfg.Auth.Secret, cfg.Auth.SessionTTL)
		if err != nil {
			a.Close()
			return nil, err
		}
		deps.Verifier = auth.NewFirebaseVerifier(cfg.Auth.FirebaseAPIKey)
		deps.Sessions = codec
		slog.Info("sign-in enabled")
	}

	srv, err := web.New(deps)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.handler = srv.Handler()
	return a, nil
}
