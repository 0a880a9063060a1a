package source

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/p-n-ai/syllabus-plus/internal/platform/cache"
)

// Store holds cached documents. Get returns cache.ErrMiss for absent keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cached serves documents from a Store, filling it from an underlying
// Source on a miss. Concurrent misses for one document are not coalesced.
type Cached struct {
	src   Source
	store Store
	ttl   time.Duration
}

// NewCached wraps src. A non-positive ttl disables caching.
func NewCached(src Source, store Store, ttl time.Duration) Source {
	if ttl <= 0 || store == nil {
		return src
	}
	return &Cached{src: src, store: store, ttl: ttl}
}

func (c *Cached) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := "doc:" + name
	data, err := c.store.Get(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("document cache read failed", "name", name, "error", err)
	}

	data, err = c.src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		slog.Warn("document cache write failed", "name", name, "error", err)
	}
	return data, nil
}

// MemoryStore is an in-process Store with per-entry expiry.
type MemoryStore struct {
	entries map[string]memoryEntry
	now     func() time.Time
	mu      sync.Mutex
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil, cache.ErrMiss
	}
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}
