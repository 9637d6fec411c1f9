package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const fileTimeLayout = "2006-01-02_15-04-05"

type LocalStore struct {
	cfg    Config
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

func NewLocalStore(cfg Config, logger *slog.Logger) *LocalStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalStore{
		cfg:    cfg,
		dir:    cfg.Dir(),
		now:    time.Now,
		logger: logger.With("component", "screenshot-store"),
	}
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Enabled() bool {
	return s.cfg.Enabled
}

// SaveScreenshot writes the image as <timestamp>_<persona>.png and returns its path.
// A disabled store returns an empty path and no error.
func (s *LocalStore) SaveScreenshot(ctx context.Context, image []byte, persona string) (string, error) {
	if !s.cfg.Enabled {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.png", s.now().Format(fileTimeLayout), SanitizeFileName(persona))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, image, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}

	s.logger.Debug("screenshot saved", "path", path, "bytes", len(image))
	return path, nil
}

// CleanupOldFiles removes files older than the retention window.
func (s *LocalStore) CleanupOldFiles(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read storage dir: %w", err)
	}

	cutoff := s.now().Add(-s.cfg.Retention())
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
				s.logger.Warn("failed to remove old file", "name", entry.Name(), "error", err)
				continue
			}
			removed++
		}
	}

	s.logger.Info("storage cleanup complete", "removed", removed, "cutoff", cutoff)
	return nil
}

// PurgeAll deletes everything under the storage directory and recreates it.
func (s *LocalStore) PurgeAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("purge storage dir: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("recreate storage dir: %w", err)
	}
	s.logger.Info("storage purged", "dir", s.dir)
	return nil
}

var invalidFileChars = `<>:"/\|?*`

func SanitizeFileName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r < 32 || strings.ContainsRune(invalidFileChars, r) {
			sb.WriteRune('_')
			continue
		}
		sb.WriteRune(r)
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "unnamed"
	}
	return out
}
