package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
)

// AuditLog appends one JSON object per line to audit_YYYY-MM-DD.json.
type AuditLog struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger

	mu sync.Mutex
}

func NewAuditLog(dir string, logger *slog.Logger) *AuditLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLog{
		dir:    dir,
		now:    time.Now,
		logger: logger.With("component", "audit-log"),
	}
}

func (a *AuditLog) PathFor(t time.Time) string {
	return filepath.Join(a.dir, fmt.Sprintf("audit_%s.json", t.Format("2006-01-02")))
}

func (a *AuditLog) LogInteraction(ctx context.Context, entry analysis.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	line = append(line, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	f, err := os.OpenFile(a.PathFor(a.now()), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}
