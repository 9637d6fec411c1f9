package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultDirName       = "CortexView_Captures"
	defaultRetentionDays = 7
)

type Config struct {
	Enabled       bool
	Path          string
	RetentionDays int
}

// Dir resolves the storage directory, falling back to ~/CortexView_Captures.
func (c Config) Dir() string {
	if c.Path != "" {
		return c.Path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), defaultDirName)
	}
	return filepath.Join(home, defaultDirName)
}

func (c Config) Retention() time.Duration {
	days := c.RetentionDays
	if days <= 0 {
		days = defaultRetentionDays
	}
	return time.Duration(days) * 24 * time.Hour
}

type Storage interface {
	SaveScreenshot(ctx context.Context, image []byte, persona string) (string, error)
	CleanupOldFiles(ctx context.Context) error
	PurgeAll(ctx context.Context) error
}
