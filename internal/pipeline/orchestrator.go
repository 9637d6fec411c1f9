package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/shared"
	"github.com/eleven-am/cortexview/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/eleven-am/cortexview/internal/pipeline"

type Dependencies struct {
	Capturer capture.Capturer
	Detector ChangeDetector
	Analyzer analysis.Analyzer

	Storage    storage.Storage
	Auditor    Auditor
	Frames     FrameCache
	Recorders  []Recorder
	Publishers []Publisher
}

// Orchestrator runs capture, gate, analysis and persistence for one window at a time.
type Orchestrator struct {
	deps   Dependencies
	slot   chan struct{}
	tracer trace.Tracer
	logger *slog.Logger

	mu    sync.RWMutex
	stage Stage

	resetPending atomic.Bool
}

func NewOrchestrator(deps Dependencies, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		deps:   deps,
		slot:   make(chan struct{}, 1),
		tracer: otel.Tracer(tracerName),
		logger: logger.With("component", "orchestrator"),
	}
}

// ResetBaseline drops the detector's reference frame before the next gated
// run, which then always counts as changed. The reset itself happens inside
// the in-flight slot.
func (o *Orchestrator) ResetBaseline() {
	o.resetPending.Store(true)
}

func (o *Orchestrator) Stage() Stage {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.stage
}

// Busy reports whether a run currently holds the in-flight slot.
func (o *Orchestrator) Busy() bool {
	return len(o.slot) > 0
}

// Run waits for any in-flight run to finish, then runs the pipeline.
// Only validation faults are returned as errors.
func (o *Orchestrator) Run(ctx context.Context, p Params) (*analysis.Response, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	select {
	case o.slot <- struct{}{}:
	case <-ctx.Done():
		return o.abandoned(ctx, p.Handle, p.Title, p.Persona, p.Force, false), nil
	}
	defer o.release()

	return o.run(ctx, p), nil
}

// TryRun is Run without waiting: it returns shared.ErrBusy if a run is in flight.
func (o *Orchestrator) TryRun(ctx context.Context, p Params) (*analysis.Response, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	select {
	case o.slot <- struct{}{}:
	default:
		return nil, shared.ErrBusy
	}
	defer o.release()

	return o.run(ctx, p), nil
}

// Reanalyze sends the last cached capture for the handle to the analyzer again,
// skipping the change gate.
func (o *Orchestrator) Reanalyze(ctx context.Context, p ReanalyzeParams) (*analysis.Response, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if o.deps.Frames == nil {
		return nil, ErrNoCapture
	}

	select {
	case o.slot <- struct{}{}:
	case <-ctx.Done():
		return o.abandoned(ctx, p.Handle, p.Title, p.Persona, false, true), nil
	}
	defer o.release()

	image, err := o.deps.Frames.Latest(ctx, p.Handle)
	if errors.Is(err, shared.ErrNotFound) || (err == nil && len(image) == 0) {
		return nil, ErrNoCapture
	}

	r := o.newRun(ctx, p.Handle, p.Title, p.Persona, false, true)
	defer r.end()
	if err != nil {
		return r.finish(r.fault(fmt.Errorf("load cached frame: %w", err))), nil
	}
	return r.finish(r.analyze(image)), nil
}

// abandoned reports a caller that gave up waiting for the in-flight slot.
// The slot was never held, so the active run's stage is left untouched.
func (o *Orchestrator) abandoned(ctx context.Context, handle capture.Handle, title string, persona *analysis.Persona, force, retry bool) *analysis.Response {
	r := o.newRun(ctx, handle, title, persona, force, retry)
	defer r.span.End()
	r.span.SetStatus(codes.Error, msgCancelled)
	r.logger.Debug("cancelled while waiting for the in-flight run")
	return r.finish(analysis.NewFailure(msgCancelled))
}

func (o *Orchestrator) release() {
	<-o.slot
}

func (o *Orchestrator) setStage(s Stage) {
	o.mu.Lock()
	o.stage = s
	o.mu.Unlock()
}

func (o *Orchestrator) run(ctx context.Context, p Params) *analysis.Response {
	r := o.newRun(ctx, p.Handle, p.Title, p.Persona, p.Force, false)
	defer r.end()
	return r.finish(r.captureAndGate(p.Threshold))
}

type run struct {
	o        *Orchestrator
	ctx      context.Context
	span     trace.Span
	logger   *slog.Logger
	result   Result
	persona  analysis.Persona
	fraction *float64
}

func (o *Orchestrator) newRun(ctx context.Context, handle capture.Handle, title string, persona *analysis.Persona, force, retry bool) *run {
	runID := shared.NewID("run_")
	ctx, span := o.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("window.handle", handle.String()),
		attribute.String("persona", persona.Name),
		attribute.Bool("forced", force),
		attribute.Bool("retry", retry),
	))

	return &run{
		o:      o,
		ctx:    ctx,
		span:   span,
		logger: o.logger.With("run_id", runID, "handle", handle.String(), "persona", persona.Name),
		result: Result{
			RunID:     runID,
			Handle:    handle,
			Title:     title,
			Persona:   persona.Name,
			Forced:    force,
			Retry:     retry,
			StartedAt: time.Now().UTC(),
		},
		persona: *persona,
	}
}

func (r *run) enter(s Stage) {
	r.o.setStage(s)
	r.span.AddEvent("stage", trace.WithAttributes(attribute.String("stage", s.String())))
	r.logger.Debug("pipeline stage", "stage", s.String())
}

func (r *run) end() {
	r.o.setStage(StageIdle)
	r.span.End()
}

func (r *run) fail(resp *analysis.Response) *analysis.Response {
	r.enter(StageFailed)
	r.span.SetStatus(codes.Error, resp.ErrorMessage)
	return resp
}

func (r *run) fault(err error) *analysis.Response {
	if isCancellation(err) {
		return r.fail(analysis.NewFailure(msgCancelled))
	}
	r.span.RecordError(err)
	r.logger.Error("pipeline fault", "error", err)
	return r.fail(analysis.NewFailuref("Unexpected error: %s", err))
}

func (r *run) finish(resp *analysis.Response) *analysis.Response {
	r.result.Response = resp
	r.result.Duration = time.Since(r.result.StartedAt)
	for _, p := range r.o.deps.Publishers {
		p.Publish(r.result)
	}
	return resp
}

func (r *run) captureAndGate(threshold float64) (resp *analysis.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			resp = r.fault(fmt.Errorf("panic: %v", rec))
		}
	}()

	r.enter(StageCapturing)
	image, err := r.o.deps.Capturer.CaptureWindow(r.ctx, r.result.Handle)
	if err != nil {
		return r.fault(err)
	}
	if err := r.ctx.Err(); err != nil {
		return r.fault(err)
	}
	if len(image) == 0 {
		return r.fail(analysis.NewFailure(msgEmptyCapture))
	}

	if r.o.deps.Frames != nil {
		if err := r.o.deps.Frames.Put(r.ctx, r.result.Handle, image); err != nil {
			r.logger.Warn("failed to cache frame", "error", err)
		}
	}

	if !r.result.Forced {
		r.enter(StageGateCheck)
		if r.o.resetPending.CompareAndSwap(true, false) {
			if rs, ok := r.o.deps.Detector.(BaselineResetter); ok {
				rs.Reset()
				r.logger.Debug("change baseline reset")
			}
		}
		f, err := r.o.deps.Detector.ComputeChangedFraction(image)
		if err != nil {
			return r.fault(err)
		}
		r.fraction = &f
		r.span.SetAttributes(attribute.Float64("changed_fraction", f))

		if !r.o.deps.Detector.IsSignificantChange(f, threshold) {
			r.logger.Debug("no significant change", "fraction", f, "threshold", threshold)
			return r.fail(analysis.NewFailuref("No significant change detected (%.1f%% < %.1f%%).", f*100, threshold*100).
				WithChangedFraction(f))
		}
	}

	return r.analyze(image)
}

func (r *run) analyze(image []byte) (resp *analysis.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			resp = r.fault(fmt.Errorf("panic: %v", rec))
		}
	}()

	if err := r.ctx.Err(); err != nil {
		return r.fault(err)
	}

	r.enter(StageBuilding)
	ocrText := ""
	if r.o.deps.Detector != nil {
		if text, ok := r.o.deps.Detector.TryExtractOCRText(image); ok {
			ocrText = text
		}
	}
	req := analysis.NewRequest(image, r.result.Title, r.persona, ocrText)

	r.enter(StageAnalyzing)
	resp = r.o.deps.Analyzer.AnalyzeImage(r.ctx, req)
	if err := r.ctx.Err(); err != nil {
		return r.fault(err)
	}
	if resp == nil {
		return r.fault(fmt.Errorf("analyzer returned no response"))
	}
	if r.fraction != nil {
		resp = resp.WithChangedFraction(*r.fraction)
	}
	if !resp.Success {
		r.logger.Warn("analysis failed", "error", resp.ErrorMessage)
		return r.fail(resp)
	}

	r.enter(StagePersisting)
	resp = r.persist(image, resp)
	r.span.SetAttributes(attribute.Int("token_usage", resp.TokenUsage))
	r.enter(StageDone)
	return resp
}

func (r *run) persist(image []byte, resp *analysis.Response) *analysis.Response {
	if r.o.deps.Storage != nil {
		path, err := r.o.deps.Storage.SaveScreenshot(r.ctx, image, r.persona.Name)
		if err != nil {
			r.logger.Warn("failed to save screenshot", "error", err)
		} else if path != "" {
			resp = resp.WithImagePath(path)
		}
	}

	if r.o.deps.Auditor != nil {
		entry := analysis.AuditEntry{
			Timestamp:      resp.Timestamp,
			Persona:        r.persona.Name,
			ImagePath:      resp.ImagePath,
			TokenUsage:     resp.TokenUsage,
			RequestContext: r.result.Title,
		}
		if err := r.o.deps.Auditor.LogInteraction(r.ctx, entry); err != nil {
			r.logger.Warn("failed to write audit entry", "error", err)
		}
	}

	result := r.result
	result.Response = resp
	result.Duration = time.Since(result.StartedAt)
	for _, rec := range r.o.deps.Recorders {
		if err := rec.Record(r.ctx, result); err != nil {
			r.logger.Warn("recorder failed", "error", err)
		}
	}
	return resp
}
