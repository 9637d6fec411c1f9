package capture

import (
	"context"
	"errors"
	"image"
	"strconv"
)

var (
	ErrInvalidHandle     = errors.New("invalid window handle")
	ErrInvalidDimensions = errors.New("invalid window dimensions")
)

type Handle int64

func (h Handle) String() string {
	return strconv.FormatInt(int64(h), 10)
}

type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func RectFrom(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

type Capturer interface {
	CaptureWindow(ctx context.Context, handle Handle) ([]byte, error)
	WindowRect(handle Handle) (Rect, error)
}

// Locator resolves a handle to the screen area it currently occupies.
type Locator interface {
	Locate(handle Handle) (Rect, error)
}
