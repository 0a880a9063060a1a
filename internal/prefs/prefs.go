// Package prefs persists per-visitor display preferences across page views.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/p-n-ai/syllabus-plus/internal/platform/cache"
)

// retention is how long an idle visitor's preferences are kept in Redis.
const retention = 365 * 24 * time.Hour

// Store persists the selected year filter by visitor id. An unknown visitor
// has no saved year ("").
type Store interface {
	Year(ctx context.Context, visitorID string) (string, error)
	SetYear(ctx context.Context, visitorID, year string) error
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	years map[string]string
	mu    sync.RWMutex
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{years: make(map[string]string)}
}

func (s *MemoryStore) Year(_ context.Context, visitorID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.years[visitorID], nil
}

func (s *MemoryStore) SetYear(_ context.Context, visitorID, year string) error {
	if visitorID == "" {
		return fmt.Errorf("visitor id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years[visitorID] = year
	return nil
}

// RedisStore keeps preferences in Redis.
type RedisStore struct {
	cache *cache.Cache
}

// NewRedisStore creates a store backed by c.
func NewRedisStore(c *cache.Cache) (*RedisStore, error) {
	if c == nil {
		return nil, fmt.Errorf("cache is nil")
	}
	return &RedisStore{cache: c}, nil
}

func yearKey(visitorID string) string {
	return "prefs:" + visitorID + ":year"
}

func (s *RedisStore) Year(ctx context.Context, visitorID string) (string, error) {
	b, err := s.cache.Get(ctx, yearKey(visitorID))
	if errors.Is(err, cache.ErrMiss) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading year preference: %w", err)
	}
	return string(b), nil
}

func (s *RedisStore) SetYear(ctx context.Context, visitorID, year string) error {
	if visitorID == "" {
		return fmt.Errorf("visitor id is required")
	}
	if err := s.cache.Set(ctx, yearKey(visitorID), []byte(year), retention); err != nil {
		return fmt.Errorf("saving year preference: %w", err)
	}
	return nil
}
