package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"mathclass-bot/internal/registration"
	"mathclass-bot/internal/validation"
)

func TestSaveGetClear(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	rc := registration.NewContext(1)
	rc.Fields[validation.FieldFirstName] = "علی"
	if err := s.Save(ctx, 1, rc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Step != registration.StepFirstName || got.Fields[validation.FieldFirstName] != "علی" {
		t.Errorf("Get returned wrong context: %+v", got)
	}

	if err := s.Clear(ctx, 1); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := s.Get(ctx, 1); !errors.Is(err, ErrNoSession) {
		t.Errorf("Get after Clear = %v, want ErrNoSession", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	rc := registration.NewContext(2)
	if err := s.Save(ctx, 2, rc); err != nil {
		t.Fatal(err)
	}

	first, _ := s.Get(ctx, 2)
	first.Fields[validation.FieldFirstName] = "دستکاری"

	second, _ := s.Get(ctx, 2)
	if _, ok := second.Fields[validation.FieldFirstName]; ok {
		t.Error("mutation of a returned context leaked into the store")
	}
}

func TestSessionTimesOut(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.Save(ctx, 3, registration.NewContext(3)); err != nil {
		t.Fatal(err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := s.Get(ctx, 3); !errors.Is(err, ErrNoSession) {
		t.Errorf("expired session still served: %v", err)
	}

	s.sweep()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.sessions) != 0 {
		t.Errorf("sweep left %d expired sessions", len(s.sessions))
	}
}
