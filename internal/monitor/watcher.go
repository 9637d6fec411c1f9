package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/shared"
)

var ErrNoTarget = fmt.Errorf("no monitoring target set: %w", shared.ErrInvalidInput)

type Runner interface {
	Run(ctx context.Context, p pipeline.Params) (*analysis.Response, error)
	TryRun(ctx context.Context, p pipeline.Params) (*analysis.Response, error)
}

type baselineResetter interface {
	ResetBaseline()
}

type Status struct {
	Running  bool             `json:"running"`
	Interval time.Duration    `json:"interval"`
	Skipped  int64            `json:"skipped"`
	Target   *pipeline.Target `json:"target,omitempty"`
}

// Watcher feeds scheduler ticks into unforced pipeline runs against the current target.
type Watcher struct {
	runner    Runner
	scheduler *Scheduler
	logger    *slog.Logger

	mu     sync.RWMutex
	target *pipeline.Target
}

func NewWatcher(runner Runner, interval time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{
		runner: runner,
		logger: logger.With("component", "watcher"),
	}
	w.scheduler = NewScheduler(w.tick, interval, logger)
	return w
}

func (w *Watcher) SetTarget(t pipeline.Target) error {
	if err := t.Params(false).Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	changed := w.target == nil || w.target.Handle != t.Handle
	w.target = &t
	w.mu.Unlock()

	if changed {
		if rs, ok := w.runner.(baselineResetter); ok {
			rs.ResetBaseline()
		}
	}

	w.logger.Info("monitoring target set", "handle", t.Handle.String(), "title", t.Title, "persona", t.Persona.Name)
	return nil
}

func (w *Watcher) Target() (pipeline.Target, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.target == nil {
		return pipeline.Target{}, false
	}
	return *w.target, true
}

func (w *Watcher) Start() error {
	if _, ok := w.Target(); !ok {
		return ErrNoTarget
	}
	return w.scheduler.Start()
}

func (w *Watcher) Stop() {
	w.scheduler.Stop()
}

func (w *Watcher) SetInterval(d time.Duration) error {
	return w.scheduler.SetInterval(d)
}

func (w *Watcher) Close() error {
	return w.scheduler.Close()
}

func (w *Watcher) Status() Status {
	status := Status{
		Running:  w.scheduler.IsRunning(),
		Interval: w.scheduler.Interval(),
		Skipped:  w.scheduler.Skipped(),
	}
	if t, ok := w.Target(); ok {
		status.Target = &t
	}
	return status
}

// CaptureNow runs a forced analysis of the current target, waiting for any in-flight run.
func (w *Watcher) CaptureNow(ctx context.Context) (*analysis.Response, error) {
	t, ok := w.Target()
	if !ok {
		return nil, ErrNoTarget
	}
	return w.runner.Run(ctx, t.Params(true))
}

func (w *Watcher) tick(ctx context.Context) {
	t, ok := w.Target()
	if !ok {
		return
	}

	resp, err := w.runner.TryRun(ctx, t.Params(false))
	switch {
	case errors.Is(err, shared.ErrBusy):
		w.logger.Debug("pipeline busy, tick skipped")
		return
	case err != nil:
		w.logger.Warn("scheduled run rejected", "error", err)
		return
	}

	switch {
	case resp.Success:
		w.logger.Info("scheduled analysis complete", "tokens", resp.TokenUsage, "image_path", resp.ImagePath)
	case strings.HasPrefix(resp.ErrorMessage, "No significant change"):
		w.logger.Debug("no significant change", "message", resp.ErrorMessage)
	default:
		w.logger.Warn("scheduled analysis failed", "error", resp.ErrorMessage)
	}
}
