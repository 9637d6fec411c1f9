package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/shared"
)

var ErrNoCapture = fmt.Errorf("no captured image to reanalyze: %w", shared.ErrInvalidInput)

const (
	msgEmptyCapture = "Screenshot capture returned empty data."
	msgCancelled    = "Analysis was cancelled."
)

type Stage int

const (
	StageIdle Stage = iota
	StageCapturing
	StageGateCheck
	StageBuilding
	StageAnalyzing
	StagePersisting
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageCapturing:
		return "capturing"
	case StageGateCheck:
		return "gate_check"
	case StageBuilding:
		return "building"
	case StageAnalyzing:
		return "analyzing"
	case StagePersisting:
		return "persisting"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ChangeDetector is the gate consulted before unforced analyses.
type ChangeDetector interface {
	ComputeChangedFraction(image []byte) (float64, error)
	IsSignificantChange(fraction, threshold float64) bool
	TryExtractOCRText(image []byte) (string, bool)
}

// BaselineResetter is implemented by detectors whose reference frame can be dropped.
type BaselineResetter interface {
	Reset()
}

type Auditor interface {
	LogInteraction(ctx context.Context, entry analysis.AuditEntry) error
}

type FrameCache interface {
	Put(ctx context.Context, handle capture.Handle, image []byte) error
	Latest(ctx context.Context, handle capture.Handle) ([]byte, error)
}

// Recorder receives every successful analysis after the screenshot is stored.
type Recorder interface {
	Record(ctx context.Context, result Result) error
}

// Publisher receives every outcome, successful or not.
type Publisher interface {
	Publish(result Result)
}

type Params struct {
	Handle    capture.Handle
	Title     string
	Persona   *analysis.Persona
	Threshold float64
	Force     bool
}

func (p Params) Validate() error {
	if err := p.Persona.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("window title is blank: %w", shared.ErrInvalidInput)
	}
	if p.Threshold < 0 || p.Threshold > 1 {
		return fmt.Errorf("threshold %.2f outside [0,1]: %w", p.Threshold, shared.ErrInvalidInput)
	}
	return nil
}

// ReanalyzeParams asks for a fresh analysis of the last image captured for Handle.
type ReanalyzeParams struct {
	Handle  capture.Handle
	Title   string
	Persona *analysis.Persona
}

func (p ReanalyzeParams) Validate() error {
	if err := p.Persona.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("window title is blank: %w", shared.ErrInvalidInput)
	}
	return nil
}

// Target is what scheduled runs capture and analyze.
type Target struct {
	Handle    capture.Handle   `json:"handle"`
	Title     string           `json:"title"`
	Persona   analysis.Persona `json:"persona"`
	Threshold float64          `json:"threshold"`
}

func (t Target) Params(force bool) Params {
	persona := t.Persona
	return Params{
		Handle:    t.Handle,
		Title:     t.Title,
		Persona:   &persona,
		Threshold: t.Threshold,
		Force:     force,
	}
}

type Result struct {
	RunID     string             `json:"run_id"`
	Handle    capture.Handle     `json:"handle"`
	Title     string             `json:"title"`
	Persona   string             `json:"persona"`
	Forced    bool               `json:"forced"`
	Retry     bool               `json:"retry"`
	Response  *analysis.Response `json:"response"`
	StartedAt time.Time          `json:"started_at"`
	Duration  time.Duration      `json:"duration"`
}

// Insignificant reports whether the run stopped at the change gate.
func (r Result) Insignificant() bool {
	return r.Response != nil && !r.Response.Success && strings.HasPrefix(r.Response.ErrorMessage, "No significant change detected")
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
