package capture

import (
	"fmt"
	"sync"

	"github.com/kbinani/screenshot"
)

// DisplayLocator treats the handle as an active display index.
type DisplayLocator struct{}

func (DisplayLocator) Locate(handle Handle) (Rect, error) {
	n := screenshot.NumActiveDisplays()
	if handle < 0 || int(handle) >= n {
		return Rect{}, fmt.Errorf("%w: display %d of %d", ErrInvalidHandle, handle, n)
	}
	return RectFrom(screenshot.GetDisplayBounds(int(handle))), nil
}

// RegionLocator maps handles to fixed screen regions, e.g. a pinned window.
type RegionLocator struct {
	mu      sync.RWMutex
	regions map[Handle]Rect
}

func NewRegionLocator() *RegionLocator {
	return &RegionLocator{regions: make(map[Handle]Rect)}
}

func (l *RegionLocator) Set(handle Handle, rect Rect) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.regions[handle] = rect
}

func (l *RegionLocator) Remove(handle Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.regions, handle)
}

func (l *RegionLocator) Locate(handle Handle) (Rect, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rect, ok := l.regions[handle]
	if !ok {
		return Rect{}, fmt.Errorf("%w: %s", ErrInvalidHandle, handle)
	}
	return rect, nil
}

// ChainLocator asks each locator in turn and returns the first match.
type ChainLocator []Locator

func (c ChainLocator) Locate(handle Handle) (Rect, error) {
	var lastErr error = fmt.Errorf("%w: %s", ErrInvalidHandle, handle)
	for _, l := range c {
		rect, err := l.Locate(handle)
		if err == nil {
			return rect, nil
		}
		lastErr = err
	}
	return Rect{}, lastErr
}
