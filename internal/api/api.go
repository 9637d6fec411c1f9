package api

import (
	"context"
	"strconv"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/dto"
	"github.com/eleven-am/cortexview/internal/history"
	"github.com/eleven-am/cortexview/internal/monitor"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/shared"
)

const DefaultThreshold = 0.10

type Runner interface {
	Run(ctx context.Context, p pipeline.Params) (*analysis.Response, error)
	Reanalyze(ctx context.Context, p pipeline.ReanalyzeParams) (*analysis.Response, error)
	Busy() bool
	Stage() pipeline.Stage
}

type PersonaSource interface {
	Personas() []analysis.Persona
	Find(name string) (analysis.Persona, error)
}

type Monitor interface {
	SetTarget(t pipeline.Target) error
	Start() error
	Stop()
	SetInterval(d time.Duration) error
	Status() monitor.Status
	CaptureNow(ctx context.Context) (*analysis.Response, error)
}

type HistoryStore interface {
	Recent(ctx context.Context, persona string, limit int) ([]*history.Record, error)
	UsageSince(ctx context.Context, since time.Time) ([]history.Usage, error)
	GetByID(ctx context.Context, id string) (*history.Record, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// resolvePersona picks the named persona, or the first loaded one when name is empty.
func resolvePersona(source PersonaSource, name string) (*analysis.Persona, error) {
	if name == "" {
		personas := source.Personas()
		if len(personas) == 0 {
			return nil, shared.ErrNotFound
		}
		p := personas[0]
		return &p, nil
	}
	p, err := source.Find(name)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toAnalysisResponse(resp *analysis.Response) dto.AnalysisResponse {
	return dto.AnalysisResponse{
		Success:         resp.Success,
		SuggestionText:  resp.SuggestionText,
		ErrorMessage:    resp.ErrorMessage,
		TokenUsage:      resp.TokenUsage,
		Timestamp:       formatTime(resp.Timestamp),
		ImagePath:       resp.ImagePath,
		ChangedFraction: resp.ChangedFraction,
	}
}

func toPersonaResponse(p analysis.Persona) dto.PersonaResponse {
	return dto.PersonaResponse{
		Name:         p.Name,
		SystemPrompt: p.SystemPrompt,
		Temperature:  p.Temperature,
		TopP:         p.TopP,
		MaxTokens:    p.MaxTokens,
	}
}

func toHistoryEntry(r *history.Record) dto.HistoryEntry {
	return dto.HistoryEntry{
		ID:              r.ID,
		RunID:           r.RunID,
		Handle:          r.Handle,
		WindowTitle:     r.WindowTitle,
		Persona:         r.Persona,
		Suggestion:      r.Suggestion,
		TokenUsage:      r.TokenUsage,
		ImagePath:       r.ImagePath,
		ChangedFraction: r.ChangedFraction,
		Forced:          r.Forced,
		Retry:           r.Retry,
		DurationMs:      r.DurationMs,
		CreatedAt:       formatTime(r.CreatedAt),
	}
}

func parseHandle(raw string) (capture.Handle, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, capture.ErrInvalidHandle
	}
	return capture.Handle(n), nil
}
