package quiz

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Attempt is a finished quiz run.
type Attempt struct {
	ID         string    `json:"id"`
	VisitorID  string    `json:"visitor_id"`
	Article    string    `json:"article"`
	SectionID  string    `json:"section_id"`
	Locale     string    `json:"locale"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
	Tier       Tier      `json:"tier"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewAttempt fills the scoring fields of an attempt from a result.
func NewAttempt(visitorID, article, sectionID, locale string, r Result) Attempt {
	return Attempt{
		VisitorID:  visitorID,
		Article:    article,
		SectionID:  sectionID,
		Locale:     locale,
		Score:      r.Score,
		Total:      r.Total,
		Percentage: r.Percentage,
		Tier:       r.Tier,
	}
}

// AttemptStore persists finished quiz runs.
type AttemptStore interface {
	RecordAttempt(ctx context.Context, a Attempt) (string, error)
	RecentAttempts(ctx context.Context, visitorID string, limit int) ([]Attempt, error)
}

// MemoryAttemptStore is an in-memory implementation of AttemptStore.
type MemoryAttemptStore struct {
	attempts []Attempt
	mu       sync.RWMutex
}

// NewMemoryAttemptStore creates a new in-memory attempt store.
func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{}
}

func (s *MemoryAttemptStore) RecordAttempt(_ context.Context, a Attempt) (string, error) {
	if a.VisitorID == "" {
		return "", fmt.Errorf("visitor_id is required")
	}
	if a.Total <= 0 {
		return "", fmt.Errorf("total must be positive, got %d", a.Total)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = generateID()
	if a.FinishedAt.IsZero() {
		a.FinishedAt = time.Now()
	}
	s.attempts = append(s.attempts, a)
	return a.ID, nil
}

func (s *MemoryAttemptStore) RecentAttempts(_ context.Context, visitorID string, limit int) ([]Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Attempt
	for _, a := range s.attempts {
		if a.VisitorID == visitorID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func generateID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
