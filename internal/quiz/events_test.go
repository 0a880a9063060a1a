package quiz_test

import (
	"context"
	"testing"

	"github.com/p-n-ai/syllabus-plus/internal/quiz"
)

func TestMemoryEventLogger_LogEvent(t *testing.T) {
	logger := quiz.NewMemoryEventLogger()

	err := logger.LogEvent(context.Background(), quiz.Event{
		VisitorID: "visitor-1",
		Article:   "algebra.json",
		SectionID: "quiz-sec-3",
		EventType: quiz.EventAnswered,
		Data: map[string]any{
			"correct": true,
		},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := logger.Events()
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].EventType != quiz.EventAnswered {
		t.Errorf("EventType = %q, want %s", events[0].EventType, quiz.EventAnswered)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestMemoryEventLogger_RequiresType(t *testing.T) {
	if err := quiz.NewMemoryEventLogger().LogEvent(context.Background(), quiz.Event{}); err == nil {
		t.Fatal("expected error for missing event type")
	}
}

func TestPostgresEventLogger_LogEvent_NilPool(t *testing.T) {
	logger := quiz.NewPostgresEventLogger(nil)

	err := logger.LogEvent(context.Background(), quiz.Event{
		VisitorID: "visitor-1",
		EventType: quiz.EventFinished,
	})
	if err == nil {
		t.Fatal("expected error for nil pool")
	}
}

func TestNewPostgresAttemptStore_NilPool(t *testing.T) {
	if _, err := quiz.NewPostgresAttemptStore(nil); err == nil {
		t.Fatal("expected error for nil pool")
	}
}
