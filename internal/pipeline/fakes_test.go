package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/shared"
)

type fakeCapturer struct {
	image []byte
	err   error
	block bool
	panic bool
	calls atomic.Int32
}

func (f *fakeCapturer) CaptureWindow(ctx context.Context, _ capture.Handle) ([]byte, error) {
	f.calls.Add(1)
	if f.panic {
		panic("capture exploded")
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.image, f.err
}

func (f *fakeCapturer) WindowRect(capture.Handle) (capture.Rect, error) {
	return capture.Rect{Width: 100, Height: 100}, nil
}

type fakeDetector struct {
	fraction float64
	err      error
	ocr      string
	calls    atomic.Int32
}

func (f *fakeDetector) ComputeChangedFraction([]byte) (float64, error) {
	f.calls.Add(1)
	return f.fraction, f.err
}

func (f *fakeDetector) IsSignificantChange(fraction, threshold float64) bool {
	return fraction >= threshold
}

func (f *fakeDetector) TryExtractOCRText([]byte) (string, bool) {
	return f.ocr, f.ocr != ""
}

type fakeAnalyzer struct {
	resp    *analysis.Response
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32

	mu       sync.Mutex
	requests []*analysis.Request
}

func (f *fakeAnalyzer) AnalyzeImage(ctx context.Context, req *analysis.Request) *analysis.Response {
	f.calls.Add(1)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return analysis.NewFailure("cancelled")
		}
	}
	if f.resp != nil {
		return f.resp
	}
	return analysis.NewSuccess("looks good", 10)
}

func (f *fakeAnalyzer) lastRequest() *analysis.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

type fakeStorage struct {
	path  string
	err   error
	saves atomic.Int32
}

func (f *fakeStorage) SaveScreenshot(context.Context, []byte, string) (string, error) {
	f.saves.Add(1)
	return f.path, f.err
}

func (f *fakeStorage) CleanupOldFiles(context.Context) error { return nil }
func (f *fakeStorage) PurgeAll(context.Context) error        { return nil }

type fakeAuditor struct {
	mu      sync.Mutex
	entries []analysis.AuditEntry
}

func (f *fakeAuditor) LogInteraction(_ context.Context, entry analysis.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

type fakeRecorder struct {
	err     error
	mu      sync.Mutex
	results []Result
}

func (f *fakeRecorder) Record(_ context.Context, result Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
	return f.err
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.results)
}

type fakePublisher struct {
	mu      sync.Mutex
	results []Result
}

func (f *fakePublisher) Publish(result Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
}

type memFrames struct {
	mu     sync.Mutex
	frames map[capture.Handle][]byte
	err    error
}

func newMemFrames() *memFrames {
	return &memFrames{frames: make(map[capture.Handle][]byte)}
}

func (m *memFrames) Put(_ context.Context, handle capture.Handle, image []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames[handle] = append([]byte(nil), image...)
	return nil
}

func (m *memFrames) Latest(_ context.Context, handle capture.Handle) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	img, ok := m.frames[handle]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return img, nil
}
