package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
)

const (
	defaultMockDelay = 2 * time.Second
	mockTokenUsage   = 42
)

// Mock returns a canned markdown analysis without calling any backend.
type Mock struct {
	delay time.Duration
}

func NewMock(delay time.Duration) *Mock {
	if delay <= 0 {
		delay = defaultMockDelay
	}
	return &Mock{delay: delay}
}

func (m *Mock) Name() string { return KindMock }

func (m *Mock) AnalyzeImage(ctx context.Context, req *analysis.Request) *analysis.Response {
	timer := time.NewTimer(m.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return analysis.NewFailure("Analysis was cancelled.")
	case <-timer.C:
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### Analysis of '%s'\n\n", req.WindowTitle)
	sb.WriteString("I see you are looking at a window. Here is a simulated analysis based on the screenshot provided:\n\n")
	fmt.Fprintf(&sb, "* **Window Title:** %s\n", req.WindowTitle)
	sb.WriteString("* **Content Detected:** Standard user interface elements.\n")
	fmt.Fprintf(&sb, "* **OCR Text Length:** %d chars\n", len(req.OCRText))
	fmt.Fprintf(&sb, "* **Image Size:** %d KB\n\n", len(req.ImageData)/1024)
	sb.WriteString("> **Note:** This is a mock response. No data was sent to an AI backend.\n")

	return analysis.NewSuccess(sb.String(), mockTokenUsage)
}
