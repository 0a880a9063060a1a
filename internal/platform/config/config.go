// Package config loads application configuration from environment variables.
// All variables use the SYLLABUS_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultAuthSecret = "change-me-in-production"

// SupportedLocales lists the locale codes the content tables carry.
var SupportedLocales = []string{"en", "fr", "de"}

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	Content       ContentConfig
	Database      DatabaseConfig
	Cache         CacheConfig
	Auth          AuthConfig
	Quiz          QuizConfig
	Log           LogConfig
	DefaultLocale string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// ContentConfig describes where the static content database lives.
type ContentConfig struct {
	BaseURL          string
	Dir              string // local checkout; takes precedence over BaseURL
	CatalogFile      string
	FilesFile        string
	LocalisationFile string
	ArticlesDir      string
	CacheTTL         time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
// An empty URL keeps quiz history in memory.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis connection settings.
// An empty URL keeps preferences and cached documents in memory.
type CacheConfig struct {
	URL string
}

// AuthConfig holds session and identity provider settings.
type AuthConfig struct {
	Secret         string
	FirebaseAPIKey string
	SessionTTL     time.Duration
}

// QuizConfig holds quiz widget settings.
type QuizConfig struct {
	Shuffle bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with SYLLABUS_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("SYLLABUS_SERVER_PORT", 8080),
			Host: envStr("SYLLABUS_SERVER_HOST", "0.0.0.0"),
		},
		Content: ContentConfig{
			BaseURL:          strings.TrimRight(envStr("SYLLABUS_CONTENT_BASE_URL", "https://shining3366dev-prog.github.io/Syllabusplus-Database"), "/"),
			Dir:              envStr("SYLLABUS_CONTENT_DIR", ""),
			CatalogFile:      envStr("SYLLABUS_CONTENT_CATALOG_FILE", "course-card-widgets.csv"),
			FilesFile:        envStr("SYLLABUS_CONTENT_FILES_FILE", "subject-files.csv"),
			LocalisationFile: envStr("SYLLABUS_CONTENT_LOCALISATION_FILE", "localisation.csv"),
			ArticlesDir:      envStr("SYLLABUS_CONTENT_ARTICLES_DIR", "articles_data"),
			CacheTTL:         envDuration("SYLLABUS_CONTENT_CACHE_TTL", 0),
		},
		Database: DatabaseConfig{
			URL:      envStr("SYLLABUS_DATABASE_URL", ""),
			MaxConns: envInt("SYLLABUS_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("SYLLABUS_DATABASE_MIN_CONNS", 1),
		},
		Cache: CacheConfig{
			URL: envStr("SYLLABUS_CACHE_URL", ""),
		},
		Auth: AuthConfig{
			Secret:         envStr("SYLLABUS_AUTH_SECRET", defaultAuthSecret),
			FirebaseAPIKey: envStr("SYLLABUS_AUTH_FIREBASE_API_KEY", ""),
			SessionTTL:     envDuration("SYLLABUS_AUTH_SESSION_TTL", 24*time.Hour),
		},
		Quiz: QuizConfig{
			Shuffle: envBool("SYLLABUS_QUIZ_SHUFFLE", true),
		},
		Log: LogConfig{
			Level:  envStr("SYLLABUS_LOG_LEVEL", "info"),
			Format: envStr("SYLLABUS_LOG_FORMAT", "json"),
		},
		DefaultLocale: envStr("SYLLABUS_DEFAULT_LOCALE", "en"),
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !IsSupportedLocale(c.DefaultLocale) {
		return fmt.Errorf("SYLLABUS_DEFAULT_LOCALE must be one of %s, got %q",
			strings.Join(SupportedLocales, ", "), c.DefaultLocale)
	}

	if c.Content.Dir == "" && c.Content.BaseURL == "" {
		return fmt.Errorf("either SYLLABUS_CONTENT_DIR or SYLLABUS_CONTENT_BASE_URL is required")
	}

	if c.Content.CacheTTL < 0 {
		return fmt.Errorf("SYLLABUS_CONTENT_CACHE_TTL must not be negative, got %s", c.Content.CacheTTL)
	}

	if c.AuthEnabled() && c.Auth.Secret == defaultAuthSecret {
		return fmt.Errorf("SYLLABUS_AUTH_SECRET must be set when Firebase auth is enabled")
	}

	return nil
}

// AuthEnabled returns true if an identity provider is configured.
func (c *Config) AuthEnabled() bool {
	return c.Auth.FirebaseAPIKey != ""
}

// IsSupportedLocale reports whether code is one of SupportedLocales.
func IsSupportedLocale(code string) bool {
	for _, l := range SupportedLocales {
		if l == code {
			return true
		}
	}
	return false
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
