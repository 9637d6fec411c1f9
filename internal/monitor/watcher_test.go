package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/shared"
)

type fakeRunner struct {
	resp    *analysis.Response
	tryErr  error
	runs    atomic.Int32
	tryRuns atomic.Int32
	resets  atomic.Int32

	mu     sync.Mutex
	params []pipeline.Params
}

func (f *fakeRunner) record(p pipeline.Params) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, p)
}

func (f *fakeRunner) last() pipeline.Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.params[len(f.params)-1]
}

func (f *fakeRunner) Run(_ context.Context, p pipeline.Params) (*analysis.Response, error) {
	f.runs.Add(1)
	f.record(p)
	return f.response(), nil
}

func (f *fakeRunner) TryRun(_ context.Context, p pipeline.Params) (*analysis.Response, error) {
	f.tryRuns.Add(1)
	f.record(p)
	if f.tryErr != nil {
		return nil, f.tryErr
	}
	return f.response(), nil
}

func (f *fakeRunner) ResetBaseline() {
	f.resets.Add(1)
}

func (f *fakeRunner) response() *analysis.Response {
	if f.resp != nil {
		return f.resp
	}
	return analysis.NewSuccess("ok", 1)
}

func testTarget() pipeline.Target {
	return pipeline.Target{
		Handle:    5,
		Title:     "Terminal",
		Persona:   analysis.NewPersona("Shell Helper", "Explain the output."),
		Threshold: 0.2,
	}
}

func TestWatcher_StartRequiresTarget(t *testing.T) {
	w := NewWatcher(&fakeRunner{}, 10*time.Millisecond, nil)
	defer w.Close()

	if err := w.Start(); !errors.Is(err, ErrNoTarget) {
		t.Errorf("expected ErrNoTarget, got %v", err)
	}
	if _, err := w.CaptureNow(context.Background()); !errors.Is(err, ErrNoTarget) {
		t.Errorf("expected ErrNoTarget, got %v", err)
	}
}

func TestWatcher_SetTargetValidates(t *testing.T) {
	w := NewWatcher(&fakeRunner{}, time.Second, nil)

	bad := testTarget()
	bad.Threshold = 2
	if err := w.SetTarget(bad); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, ok := w.Target(); ok {
		t.Error("invalid target must not be stored")
	}

	if err := w.SetTarget(testTarget()); err != nil {
		t.Fatalf("SetTarget() error = %v", err)
	}
	if got, ok := w.Target(); !ok || got.Title != "Terminal" {
		t.Errorf("unexpected target %+v", got)
	}
}

func TestWatcher_SetTargetResetsBaselineOnNewHandle(t *testing.T) {
	runner := &fakeRunner{}
	w := NewWatcher(runner, time.Second, nil)
	defer w.Close()

	target := testTarget()
	if err := w.SetTarget(target); err != nil {
		t.Fatal(err)
	}
	target.Threshold = 0.5
	if err := w.SetTarget(target); err != nil {
		t.Fatal(err)
	}
	if got := runner.resets.Load(); got != 1 {
		t.Fatalf("expected one reset for the first target, got %d", got)
	}

	target.Handle = 6
	if err := w.SetTarget(target); err != nil {
		t.Fatal(err)
	}
	if got := runner.resets.Load(); got != 2 {
		t.Errorf("expected a reset after switching handles, got %d", got)
	}
}

func TestWatcher_TicksRunUnforced(t *testing.T) {
	runner := &fakeRunner{}
	w := NewWatcher(runner, 10*time.Millisecond, nil)
	defer w.Close()

	w.SetTarget(testTarget())
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}

	waitFor(t, time.Second, func() bool { return runner.tryRuns.Load() >= 2 })

	p := runner.last()
	if p.Force {
		t.Error("scheduled runs must not be forced")
	}
	if p.Handle != 5 || p.Threshold != 0.2 || p.Persona.Name != "Shell Helper" {
		t.Errorf("unexpected params %+v", p)
	}
	if runner.runs.Load() != 0 {
		t.Error("scheduled runs must use TryRun")
	}
}

func TestWatcher_BusyAndGatedTicksKeepRunning(t *testing.T) {
	runner := &fakeRunner{tryErr: shared.ErrBusy}
	w := NewWatcher(runner, 10*time.Millisecond, nil)
	defer w.Close()

	w.SetTarget(testTarget())
	w.Start()
	waitFor(t, time.Second, func() bool { return runner.tryRuns.Load() >= 2 })

	if !w.Status().Running {
		t.Error("busy ticks must not stop the scheduler")
	}
}

func TestWatcher_CaptureNowIsForced(t *testing.T) {
	runner := &fakeRunner{}
	w := NewWatcher(runner, time.Hour, nil)
	w.SetTarget(testTarget())

	resp, err := w.CaptureNow(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Errorf("expected success, got %+v", resp)
	}
	if !runner.last().Force {
		t.Error("manual capture must be forced")
	}
	if runner.runs.Load() != 1 {
		t.Error("manual capture must wait via Run")
	}
}

func TestWatcher_Status(t *testing.T) {
	w := NewWatcher(&fakeRunner{}, 2*time.Second, nil)
	defer w.Close()

	status := w.Status()
	if status.Running || status.Interval != 2*time.Second || status.Target != nil {
		t.Errorf("unexpected status %+v", status)
	}

	w.SetTarget(testTarget())
	w.Start()
	w.SetInterval(3 * time.Second)

	status = w.Status()
	if !status.Running || status.Interval != 3*time.Second || status.Target == nil {
		t.Errorf("unexpected status %+v", status)
	}

	w.Stop()
	if w.Status().Running {
		t.Error("expected stopped")
	}
}
