package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/kbinani/screenshot"
)

type grabFunc func(bounds image.Rectangle) (*image.RGBA, error)

// Screen captures the area a Locator reports for a handle and encodes it as PNG.
type Screen struct {
	locator Locator
	grab    grabFunc
	logger  *slog.Logger
}

func NewScreen(locator Locator, logger *slog.Logger) *Screen {
	if locator == nil {
		locator = DisplayLocator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen{
		locator: locator,
		grab:    screenshot.CaptureRect,
		logger:  logger.With("component", "screen-capture"),
	}
}

func (s *Screen) WindowRect(handle Handle) (Rect, error) {
	return s.locator.Locate(handle)
}

func (s *Screen) CaptureWindow(ctx context.Context, handle Handle) ([]byte, error) {
	rect, err := s.locator.Locate(handle)
	if err != nil {
		return nil, err
	}
	if rect.Empty() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rect.Width, rect.Height)
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)

	go func() {
		img, err := s.grab(rect.Bounds())
		if err != nil {
			done <- result{err: fmt.Errorf("capture rect: %w", err)}
			return
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			done <- result{err: fmt.Errorf("encode png: %w", err)}
			return
		}
		done <- result{data: buf.Bytes()}
	}()

	select {
	case r := <-done:
		if r.err == nil {
			s.logger.Debug("captured window", "handle", handle, "width", rect.Width, "height", rect.Height, "bytes", len(r.data))
		}
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
