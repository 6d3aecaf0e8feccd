package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
)

const backupTimeLayout = "20060102_150405"

// backupDocument mirrors the combined students file the admin tooling expects.
type backupDocument struct {
	Students []StudentRecord `json:"students"`
}

func (s *FileStorage) backupsDir() string {
	return filepath.Join(s.dir, "backups")
}

// RunBackups snapshots the full store every interval until ctx is cancelled,
// keeping at most maxBackups files. Backup failures are logged and never
// propagate; live writes do not depend on this loop.
func (s *FileStorage) RunBackups(ctx context.Context, interval time.Duration, maxBackups int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.BackupNow(ctx, maxBackups); err != nil {
				s.logger.Error("Backup failed", zap.Error(err))
			}
		}
	}
}

// BackupNow writes one full-store snapshot and prunes the oldest files beyond
// maxBackups.
func (s *FileStorage) BackupNow(ctx context.Context, maxBackups int) error {
	records, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("collect records: %w", err)
	}

	if err := os.MkdirAll(s.backupsDir(), 0o755); err != nil {
		return fmt.Errorf("create backups dir: %w", err)
	}

	data, err := json.MarshalIndent(backupDocument{Students: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	name := fmt.Sprintf("students_%s.json", s.now().Format(backupTimeLayout))
	if err := os.WriteFile(filepath.Join(s.backupsDir(), name), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.logger.Info("Backup written",
		zap.String("file", name),
		zap.Int("records", len(records)))

	return s.pruneBackups(maxBackups)
}

func (s *FileStorage) pruneBackups(maxBackups int) error {
	if maxBackups <= 0 {
		return nil
	}

	entries, err := os.ReadDir(s.backupsDir())
	if err != nil {
		return fmt.Errorf("list backups dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	if len(names) <= maxBackups {
		return nil
	}

	// Timestamped names sort chronologically; oldest first.
	sort.Strings(names)
	for _, name := range names[:len(names)-maxBackups] {
		if err := os.Remove(filepath.Join(s.backupsDir(), name)); err != nil {
			s.logger.Warn("Failed to prune old backup",
				zap.String("file", name),
				zap.Error(err))
		}
	}
	return nil
}
