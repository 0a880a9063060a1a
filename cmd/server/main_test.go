package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/p-n-ai/syllabus-plus/internal/platform/config"
)

func TestHealthEndpoints(t *testing.T) {
	cfg := testConfig(t)
	a, err := newApp(t.Context(), cfg)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.Close()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "healthz returns 200",
			path:       "/healthz",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok"}`,
		},
		{
			name:       "readyz returns 200",
			path:       "/readyz",
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			a.handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestNewApp_ServesCatalog(t *testing.T) {
	a, err := newApp(t.Context(), testConfig(t))
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	defer a.Close()

	req := httptest.NewRequest(http.MethodGet, "/?lang=de", nil)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Physik") {
		t.Error("catalog should list the subject")
	}
}

func TestNewApp_MissingContentDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Dir = filepath.Join(t.TempDir(), "missing")
	if _, err := newApp(t.Context(), cfg); err == nil {
		t.Error("newApp() should fail for a missing content dir")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LogConfig
		wantJSON bool
		wantText string
	}{
		{"json info", config.LogConfig{Level: "info", Format: "json"}, true, "visible"},
		{"text debug", config.LogConfig{Level: "debug", Format: "text"}, false, "visible"},
		{"invalid level falls back to info", config.LogConfig{Level: "loud", Format: "json"}, true, "visible"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.cfg)
			logger.Debug("hidden unless debug")
			logger.Info(tt.wantText)

			out := buf.String()
			if !strings.Contains(out, tt.wantText) {
				t.Errorf("output %q missing %q", out, tt.wantText)
			}
			if tt.wantJSON {
				line := strings.SplitN(strings.TrimSpace(out), "\n", 2)[0]
				if !json.Valid([]byte(line)) {
					t.Errorf("output %q is not JSON", line)
				}
			}
			debugOn := tt.cfg.Level == "debug"
			if got := strings.Contains(out, "hidden unless debug"); got != debugOn {
				t.Errorf("debug line logged = %v, want %v", got, debugOn)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nope", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"course-card-widgets.csv": "title;description;available;color;image;years\nPhysics;;TRUE;;;S3\n",
		"subject-files.csv":       "subject;year;path;name;link\n",
		"localisation.csv":        "key;en;fr;de\nsubject_physics;Physics;Physique;Physik\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Setenv("SYLLABUS_CONTENT_DIR", dir)
	t.Setenv("SYLLABUS_DATABASE_URL", "")
	t.Setenv("SYLLABUS_CACHE_URL", "")
	t.Setenv("SYLLABUS_AUTH_FIREBASE_API_KEY", "")
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}
