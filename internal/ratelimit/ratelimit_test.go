package ratelimit

import (
	"testing"
	"time"
)

func TestCeilingWithinWindow(t *testing.T) {
	l := New(3, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow(100) {
			t.Fatalf("request %d throttled below ceiling", i+1)
		}
	}
	if l.Allow(100) {
		t.Error("request above ceiling allowed")
	}
}

func TestWindowSlides(t *testing.T) {
	l := New(2, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow(5)
	now = now.Add(30 * time.Second)
	l.Allow(5)
	if l.Allow(5) {
		t.Fatal("third request inside window allowed")
	}

	// Once the first request ages out, capacity frees up again.
	now = now.Add(31 * time.Second)
	if !l.Allow(5) {
		t.Error("request throttled after window elapsed")
	}
}

func TestUsersAreIndependent(t *testing.T) {
	l := New(1, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow(1) {
		t.Fatal("first user throttled")
	}
	if !l.Allow(2) {
		t.Error("second user throttled by first user's traffic")
	}
}

func TestSweepDropsIdleUsers(t *testing.T) {
	l := New(5, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow(1)
	l.Allow(2)

	now = now.Add(2 * time.Minute)
	l.sweep()

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.history) != 0 {
		t.Errorf("sweep left %d idle users", len(l.history))
	}
}
