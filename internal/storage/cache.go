package storage

import (
	"sync"
	"time"
)

// recordCache is a TTL read cache in front of the user files. Entries hold
// copies, never the caller's record, so a cached value cannot be mutated
// behind the cache's back.
type recordCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int64]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	record    StudentRecord
	expiresAt time.Time
}

func newRecordCache(ttl time.Duration, now func() time.Time) *recordCache {
	return &recordCache{
		ttl:     ttl,
		entries: make(map[int64]cacheEntry),
		now:     now,
	}
}

func (c *recordCache) get(userID int64) (*StudentRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, userID)
		return nil, false
	}
	record := entry.record
	return &record, true
}

func (c *recordCache) set(userID int64, record *StudentRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = cacheEntry{
		record:    *record,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *recordCache) invalidate(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}
