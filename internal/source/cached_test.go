package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/p-n-ai/syllabus-plus/internal/platform/cache"
)

type countingSource struct {
	calls int
	data  map[string]string
}

func (s *countingSource) Fetch(_ context.Context, name string) ([]byte, error) {
	s.calls++
	d, ok := s.data[name]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(d), nil
}

func TestCached(t *testing.T) {
	src := &countingSource{data: map[string]string{"a.csv": "x"}}
	c := NewCached(src, NewMemoryStore(), time.Minute)

	for i := 0; i < 3; i++ {
		data, err := c.Fetch(t.Context(), "a.csv")
		if err != nil || string(data) != "x" {
			t.Fatalf("Fetch() = %q, %v", data, err)
		}
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}

	if _, err := c.Fetch(t.Context(), "b.csv"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch(b) error = %v, want ErrNotFound", err)
	}
}

func TestNewCached_Disabled(t *testing.T) {
	src := &countingSource{}
	if got := NewCached(src, NewMemoryStore(), 0); got != Source(src) {
		t.Error("zero ttl should return the source unwrapped")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	m := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if err := m.Set(t.Context(), "k", []byte("v"), time.Second); err != nil {
		t.Fatal(err)
	}
	if v, err := m.Get(t.Context(), "k"); err != nil || string(v) != "v" {
		t.Errorf("Get() = %q, %v", v, err)
	}

	now = now.Add(time.Second)
	if _, err := m.Get(t.Context(), "k"); !errors.Is(err, cache.ErrMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrMiss", err)
	}
}
