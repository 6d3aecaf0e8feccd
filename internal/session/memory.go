package session

import (
	"context"
	"sync"
	"time"

	"mathclass-bot/internal/registration"
	"mathclass-bot/internal/validation"
)

// MemoryStore is the default single-process session store: a map with
// per-entry deadlines and a janitor sweep. Entries hold copies so callers
// cannot mutate a stored context behind the store's back.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	sessions map[int64]memoryEntry
}

type memoryEntry struct {
	rc        registration.Context
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[int64]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, chatID int64) (*registration.Context, error) {
	s.mu.RLock()
	entry, ok := s.sessions[chatID]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		return nil, ErrNoSession
	}
	return copyContext(&entry.rc), nil
}

func (s *MemoryStore) Save(_ context.Context, chatID int64, rc *registration.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = memoryEntry{
		rc:        *copyContext(rc),
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
	return nil
}

// RunJanitor evicts expired sessions every interval until ctx is cancelled.
// Get already ignores expired entries; this just bounds the map's size.
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for chatID, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, chatID)
		}
	}
}

func copyContext(rc *registration.Context) *registration.Context {
	dup := *rc
	dup.Fields = make(map[validation.Field]string, len(rc.Fields))
	for k, v := range rc.Fields {
		dup.Fields[k] = v
	}
	return &dup
}
