package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"mathclass-bot/internal/validation"
)

// FileStorage keeps one JSON document per user under <dir>/users. Writes are
// serialized per user id and land via temp-file + rename, so a reader never
// observes a half-written document. Reads go through a TTL cache that is
// replaced atomically with every successful write.
type FileStorage struct {
	dir    string
	logger *zap.Logger
	cache  *recordCache
	now    func() time.Time

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex

	// retryMax bounds how long a single Get/Put keeps retrying transient
	// I/O failures before surfacing them.
	retryMax time.Duration
}

func NewFileStorage(dir string, cacheTTL time.Duration, logger *zap.Logger) (*FileStorage, error) {
	s := &FileStorage{
		dir:      dir,
		logger:   logger,
		now:      time.Now,
		locks:    make(map[int64]*sync.Mutex),
		retryMax: 10 * time.Second,
	}
	s.cache = newRecordCache(cacheTTL, func() time.Time { return s.now() })

	if err := os.MkdirAll(s.usersDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create users dir: %w", err)
	}
	return s, nil
}

func (s *FileStorage) usersDir() string {
	return filepath.Join(s.dir, "users")
}

func (s *FileStorage) userFile(userID int64) string {
	return filepath.Join(s.usersDir(), fmt.Sprintf("user_%d.json", userID))
}

func (s *FileStorage) lockFor(userID int64) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[userID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[userID] = mu
	}
	return mu
}

// Get returns the record for userID, from cache when fresh, otherwise from
// disk. Returns ErrNotFound when no document exists and ErrCorrupt when the
// document cannot be parsed.
func (s *FileStorage) Get(ctx context.Context, userID int64) (*StudentRecord, error) {
	if record, ok := s.cache.get(userID); ok {
		return record, nil
	}

	// The miss path takes the same per-key lock as writers: a read that
	// loaded the old document must never re-cache it over a concurrent
	// write's fresher entry.
	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	if record, ok := s.cache.get(userID); ok {
		return record, nil
	}

	record, err := s.readFile(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.set(userID, record)
	return record, nil
}

// Put upserts the full record. An incoming zero RegisteredAt inherits the
// existing record's registration time, or the current time for a first
// registration; UpdatedAt always moves.
func (s *FileStorage) Put(ctx context.Context, record *StudentRecord) error {
	mu := s.lockFor(record.UserID)
	mu.Lock()
	defer mu.Unlock()

	stored := *record
	now := s.now()
	if stored.RegisteredAt.IsZero() {
		stored.RegisteredAt = now
		if existing, err := s.readFile(ctx, record.UserID); err == nil {
			stored.RegisteredAt = existing.RegisteredAt
		}
	}
	stored.UpdatedAt = now

	if err := s.writeFile(ctx, &stored); err != nil {
		s.cache.invalidate(record.UserID)
		return err
	}
	s.cache.set(record.UserID, &stored)
	return nil
}

// UpdateField rewrites a single field of an existing record. Returns
// ErrNotFound when the user has never registered.
func (s *FileStorage) UpdateField(ctx context.Context, userID int64, field validation.Field, value string) error {
	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	record, err := s.readFile(ctx, userID)
	if err != nil {
		return err
	}

	record.setField(field, value)
	record.UpdatedAt = s.now()

	if err := s.writeFile(ctx, record); err != nil {
		s.cache.invalidate(userID)
		return err
	}
	s.cache.set(userID, record)
	return nil
}

// List loads every stored record, snapshot-consistent with the directory
// listing at call time. Corrupt documents are logged and skipped so one bad
// file cannot take down an admin export or broadcast.
func (s *FileStorage) List(ctx context.Context) ([]StudentRecord, error) {
	entries, err := os.ReadDir(s.usersDir())
	if err != nil {
		return nil, fmt.Errorf("list users dir: %w", err)
	}

	records := make([]StudentRecord, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "user_") || !strings.HasSuffix(name, ".json") {
			continue
		}

		var userID int64
		if _, err := fmt.Sscanf(name, "user_%d.json", &userID); err != nil {
			continue
		}

		record, err := s.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // removed between listing and read
			}
			s.logger.Error("Skipping unreadable record",
				zap.Int64("user_id", userID),
				zap.Error(err))
			continue
		}
		records = append(records, *record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].UserID < records[j].UserID })
	return records, nil
}

func (s *FileStorage) readFile(ctx context.Context, userID int64) (*StudentRecord, error) {
	var record StudentRecord

	err := s.retry(ctx, func() error {
		data, err := os.ReadFile(s.userFile(userID))
		if errors.Is(err, os.ErrNotExist) {
			return backoff.Permanent(ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}
		if err := json.Unmarshal(data, &record); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: user %d: %v", ErrCorrupt, userID, err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *FileStorage) writeFile(ctx context.Context, record *StudentRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	return s.retry(ctx, func() error {
		tmp, err := os.CreateTemp(s.usersDir(), fmt.Sprintf("user_%d_*.tmp", record.UserID))
		if err != nil {
			return fmt.Errorf("create temp file: %w", err)
		}
		tmpName := tmp.Name()

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("write temp file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("close temp file: %w", err)
		}
		if err := os.Rename(tmpName, s.userFile(record.UserID)); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("replace record: %w", err)
		}
		return nil
	})
}

func (s *FileStorage) retry(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = time.Second
	policy.MaxElapsedTime = s.retryMax

	return backoff.RetryNotify(
		op,
		backoff.WithContext(policy, ctx),
		func(err error, next time.Duration) {
			s.logger.Warn("Storage operation failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
}
