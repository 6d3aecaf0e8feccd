package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestBackupNowWritesSnapshot(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []int64{1, 2} {
		if err := s.Put(ctx, sampleRecord(id)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	if err := s.BackupNow(ctx, 5); err != nil {
		t.Fatalf("BackupNow failed: %v", err)
	}

	entries, err := os.ReadDir(s.backupsDir())
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d backup files, want 1", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(s.backupsDir(), entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	var doc backupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("backup unparsable: %v", err)
	}
	if len(doc.Students) != 2 {
		t.Errorf("backup holds %d students, want 2", len(doc.Students))
	}
}

func TestBackupRotation(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.Put(ctx, sampleRecord(1)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		if err := s.BackupNow(ctx, 3); err != nil {
			t.Fatalf("BackupNow failed: %v", err)
		}
	}

	entries, err := os.ReadDir(s.backupsDir())
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d backup files after rotation, want 3", len(entries))
	}
	// Oldest snapshots are the ones evicted.
	if entries[0].Name() != "students_20260501_000200.json" {
		t.Errorf("unexpected oldest surviving backup: %s", entries[0].Name())
	}
}
