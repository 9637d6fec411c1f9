package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eleven-am/cortexview/internal/shared"
)

const DefaultInterval = 5 * time.Second

var ErrInvalidInterval = fmt.Errorf("interval must be positive: %w", shared.ErrInvalidInput)

// Trigger is invoked on every tick. The context is cancelled when the scheduler stops.
type Trigger func(ctx context.Context)

type Scheduler struct {
	trigger Trigger
	logger  *slog.Logger

	mu       sync.Mutex
	interval time.Duration
	running  bool
	closed   bool
	ticker   *time.Ticker
	cancel   context.CancelFunc
	done     chan struct{}

	inFlight atomic.Bool
	skipped  atomic.Int64
	wg       sync.WaitGroup
}

func NewScheduler(trigger Trigger, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		trigger:  trigger,
		interval: interval,
		logger:   logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return shared.ErrClosed
	}
	if s.running {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.ticker = time.NewTicker(s.interval)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	s.wg.Add(1)
	go s.loop(ctx, s.ticker, s.done)

	s.logger.Info("monitoring started", "interval", s.interval)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, ticker *time.Ticker, done chan struct{}) {
	defer s.wg.Done()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	// A tick already taken from the channel can race Stop.
	if ctx.Err() != nil {
		return
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		s.logger.Debug("tick skipped, previous trigger still running")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inFlight.Store(false)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("trigger panicked", "panic", r)
			}
		}()
		s.trigger(ctx)
	}()
}

// Stop halts ticking and cancels any in-flight trigger. It does not wait for the trigger to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if !s.running {
		return
	}
	s.ticker.Stop()
	s.cancel()
	close(s.done)
	s.running = false
	s.ticker = nil
	s.cancel = nil
	s.done = nil

	s.logger.Info("monitoring stopped")
}

func (s *Scheduler) SetInterval(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.interval = d
	if s.running {
		s.ticker.Reset(d)
	}
	s.logger.Info("monitoring interval changed", "interval", d)
	return nil
}

func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Skipped counts ticks dropped because the previous trigger had not finished.
func (s *Scheduler) Skipped() int64 {
	return s.skipped.Load()
}

// Close stops the scheduler and waits for in-flight work. Later Start calls fail with shared.ErrClosed.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.stopLocked()
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}
