package detector

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/eleven-am/cortexview/internal/shared"
	"golang.org/x/image/draw"
)

const (
	DefaultGridWidth      = 64
	DefaultGridHeight     = 36
	DefaultNoiseThreshold = 10
)

var ErrEmptyImage = fmt.Errorf("image data is empty: %w", shared.ErrInvalidInput)

type Decision int

const (
	NoChange Decision = iota
	MinorChange
	SignificantChange
)

func (d Decision) String() string {
	switch d {
	case NoChange:
		return "no_change"
	case MinorChange:
		return "minor_change"
	case SignificantChange:
		return "significant_change"
	default:
		return "unknown"
	}
}

// State is the memory carried between ComputeChangedFraction calls.
type State struct {
	primed     bool
	hash       [sha256.Size]byte
	downscaled []byte
}

type Detector struct {
	width  int
	height int
	noise  int
	ocr    OCRExtractor
	state  State
}

type Option func(*Detector)

func WithGrid(width, height int) Option {
	return func(d *Detector) {
		if width > 0 && height > 0 {
			d.width = width
			d.height = height
		}
	}
}

func WithNoiseThreshold(threshold int) Option {
	return func(d *Detector) {
		if threshold >= 0 {
			d.noise = threshold
		}
	}
}

func WithOCR(ocr OCRExtractor) Option {
	return func(d *Detector) {
		if ocr != nil {
			d.ocr = ocr
		}
	}
}

func New(opts ...Option) *Detector {
	d := &Detector{
		width:  DefaultGridWidth,
		height: DefaultGridHeight,
		noise:  DefaultNoiseThreshold,
		ocr:    NoopOCR{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ComputeChangedFraction reports the share of grid cells whose luminance moved
// more than the noise threshold since the previous call. The first call returns 1.
// Bytes that do not decode as an image only take part in the hash comparison and
// otherwise count as fully changed. Not safe for concurrent use.
func (d *Detector) ComputeChangedFraction(img []byte) (float64, error) {
	if len(img) == 0 {
		return 0, ErrEmptyImage
	}

	sum := sha256.Sum256(img)
	if d.state.primed && sum == d.state.hash {
		return 0, nil
	}
	d.state.hash = sum
	d.state.primed = true

	current, ok := d.downsample(img)
	previous := d.state.downscaled
	d.state.downscaled = current
	if !ok || previous == nil {
		return 1, nil
	}

	return changedFraction(previous, current, d.noise), nil
}

func (d *Detector) IsSignificantChange(fraction, threshold float64) bool {
	return IsSignificantChange(fraction, threshold)
}

// IsSignificantChange is true when fraction reaches threshold. Equality counts.
func IsSignificantChange(fraction, threshold float64) bool {
	return fraction >= threshold
}

// Decide classifies a fraction for logging. Gating uses IsSignificantChange.
func Decide(fraction, threshold float64) Decision {
	if fraction <= 0 {
		return NoChange
	}
	if !IsSignificantChange(fraction, threshold) {
		return MinorChange
	}
	return SignificantChange
}

func (d *Detector) TryExtractOCRText(img []byte) (string, bool) {
	return d.ocr.ExtractText(img)
}

// Snapshot returns a copy of the detector's state.
func (d *Detector) Snapshot() State {
	s := d.state
	if d.state.downscaled != nil {
		s.downscaled = append([]byte(nil), d.state.downscaled...)
	}
	return s
}

func (d *Detector) Reset() {
	d.state = State{}
}

func (s State) Primed() bool {
	return s.primed
}

func (s State) Equal(other State) bool {
	return s.primed == other.primed &&
		s.hash == other.hash &&
		bytes.Equal(s.downscaled, other.downscaled)
}

func (d *Detector) downsample(data []byte) ([]byte, bool) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}

	dst := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return grayscale(dst), true
}

func grayscale(img *image.RGBA) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			off := img.PixOffset(x, y)
			r := float64(img.Pix[off])
			g := float64(img.Pix[off+1])
			bl := float64(img.Pix[off+2])
			out = append(out, byte(r*0.3+g*0.59+bl*0.11))
		}
	}
	return out
}

func changedFraction(previous, current []byte, noise int) float64 {
	total := len(current)
	if total == 0 {
		return 0
	}
	if len(previous) != total {
		return 1
	}

	changed := 0
	for i := 0; i < total; i++ {
		diff := int(current[i]) - int(previous[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > noise {
			changed++
		}
	}
	return float64(changed) / float64(total)
}
