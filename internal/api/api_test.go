package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/history"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/shared"
	"github.com/labstack/echo/v4"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRunner struct {
	resp         *analysis.Response
	reanalyzeErr error
	busy         bool

	mu        sync.Mutex
	lastRun   pipeline.Params
	lastRetry pipeline.ReanalyzeParams
	runs      int
}

func (f *fakeRunner) Run(_ context.Context, p pipeline.Params) (*analysis.Response, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRun = p
	f.runs++
	if f.resp != nil {
		return f.resp, nil
	}
	return analysis.NewSuccess("looks good", 12), nil
}

func (f *fakeRunner) TryRun(ctx context.Context, p pipeline.Params) (*analysis.Response, error) {
	return f.Run(ctx, p)
}

func (f *fakeRunner) Reanalyze(_ context.Context, p pipeline.ReanalyzeParams) (*analysis.Response, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if f.reanalyzeErr != nil {
		return nil, f.reanalyzeErr
	}
	f.mu.Lock()
	f.lastRetry = p
	f.mu.Unlock()
	return analysis.NewSuccess("second opinion", 8), nil
}

func (f *fakeRunner) Busy() bool            { return f.busy }
func (f *fakeRunner) Stage() pipeline.Stage { return pipeline.StageIdle }

type fakePersonas []analysis.Persona

func (f fakePersonas) Personas() []analysis.Persona { return f }

func (f fakePersonas) Find(name string) (analysis.Persona, error) {
	for _, p := range f {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return analysis.Persona{}, fmt.Errorf("persona %q: %w", name, shared.ErrNotFound)
}

func testPersonas() fakePersonas {
	return fakePersonas{
		analysis.NewPersona("Code Reviewer", "Review code."),
		analysis.NewPersona("Tutor", "Teach."),
	}
}

type fakeCapturer struct{}

func (fakeCapturer) CaptureWindow(context.Context, capture.Handle) ([]byte, error) {
	return []byte{1}, nil
}

func (fakeCapturer) WindowRect(h capture.Handle) (capture.Rect, error) {
	if h != 1 {
		return capture.Rect{}, capture.ErrInvalidHandle
	}
	return capture.Rect{X: 10, Y: 20, Width: 800, Height: 600}, nil
}

type fakeHistory struct {
	records []*history.Record
	usage   []history.Usage
	err     error

	lastPersona string
	lastLimit   int
	lastSince   time.Time
	lastCutoff  time.Time
}

func (f *fakeHistory) Recent(_ context.Context, persona string, limit int) ([]*history.Record, error) {
	f.lastPersona = persona
	f.lastLimit = limit
	return f.records, f.err
}

func (f *fakeHistory) UsageSince(_ context.Context, since time.Time) ([]history.Usage, error) {
	f.lastSince = since
	return f.usage, f.err
}

func (f *fakeHistory) GetByID(_ context.Context, id string) (*history.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeHistory) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.lastCutoff = cutoff
	return int64(len(f.records)), f.err
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body shared.APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error %q: %v", rec.Body.String(), err)
	}
	return body.Code
}

func TestResolvePersona(t *testing.T) {
	personas := testPersonas()

	p, err := resolvePersona(personas, "")
	if err != nil || p.Name != "Code Reviewer" {
		t.Errorf("expected first persona, got %v, %v", p, err)
	}

	p, err = resolvePersona(personas, "tutor")
	if err != nil || p.Name != "Tutor" {
		t.Errorf("expected Tutor, got %v, %v", p, err)
	}

	if _, err := resolvePersona(personas, "missing"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := resolvePersona(fakePersonas{}, ""); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty source, got %v", err)
	}
}

func TestParseHandle(t *testing.T) {
	if h, err := parseHandle("42"); err != nil || h != 42 {
		t.Errorf("unexpected %v, %v", h, err)
	}
	if _, err := parseHandle("abc"); !errors.Is(err, capture.ErrInvalidHandle) {
		t.Errorf("expected ErrInvalidHandle, got %v", err)
	}
}
