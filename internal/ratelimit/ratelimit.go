package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter bounds per-user request rates with a sliding window: a request is
// allowed while fewer than max requests happened within the trailing window.
// Being throttled is an expected outcome, not an error.
type Limiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	history map[int64][]time.Time
}

func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		now:     time.Now,
		history: make(map[int64][]time.Time),
	}
}

// Allow records the request and reports whether it fits in the window.
// Timestamps older than the window are purged lazily on each call.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.history[userID][:0]
	for _, ts := range l.history[userID] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.max {
		l.history[userID] = recent
		return false
	}

	l.history[userID] = append(recent, now)
	return true
}

// RunCleanup drops users with no activity inside the window every interval,
// bounding memory for one-off visitors. Runs until ctx is cancelled.
func (l *Limiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	for userID, timestamps := range l.history {
		active := false
		for _, ts := range timestamps {
			if ts.After(cutoff) {
				active = true
				break
			}
		}
		if !active {
			delete(l.history, userID)
		}
	}
}
