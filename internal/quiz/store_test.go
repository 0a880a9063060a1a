package quiz_test

import (
	"context"
	"testing"
	"time"

	"github.com/p-n-ai/syllabus-plus/internal/quiz"
)

func TestMemoryAttemptStore(t *testing.T) {
	store := quiz.NewMemoryAttemptStore()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, score := range []int{1, 2, 3} {
		a := quiz.NewAttempt("visitor-1", "algebra.json", "quiz-sec-3", "en", quiz.NewResult(score, 3))
		a.FinishedAt = base.Add(time.Duration(i) * time.Minute)
		id, err := store.RecordAttempt(ctx, a)
		if err != nil {
			t.Fatalf("RecordAttempt() error = %v", err)
		}
		if id == "" {
			t.Error("RecordAttempt() returned empty id")
		}
	}
	if _, err := store.RecordAttempt(ctx, quiz.NewAttempt("visitor-2", "a.json", "q", "fr", quiz.NewResult(0, 1))); err != nil {
		t.Fatalf("RecordAttempt() error = %v", err)
	}

	got, err := store.RecentAttempts(ctx, "visitor-1", 2)
	if err != nil {
		t.Fatalf("RecentAttempts() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Score != 3 || got[0].Tier != quiz.TierHigh {
		t.Errorf("most recent attempt = %+v, want score 3 high", got[0])
	}
	if got[1].Percentage != 67 || got[1].Tier != quiz.TierMid {
		t.Errorf("second attempt = %+v, want 67%% mid", got[1])
	}
}

func TestMemoryAttemptStore_Validation(t *testing.T) {
	store := quiz.NewMemoryAttemptStore()
	ctx := context.Background()

	if _, err := store.RecordAttempt(ctx, quiz.Attempt{Total: 1}); err == nil {
		t.Error("RecordAttempt() should require a visitor")
	}
	if _, err := store.RecordAttempt(ctx, quiz.Attempt{VisitorID: "v"}); err == nil {
		t.Error("RecordAttempt() should require a positive total")
	}
}
