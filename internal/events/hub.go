package events

import (
	"log/slog"
	"sync"
	"time"

	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/shared"
)

type Type string

const (
	TypeAnalysisCompleted Type = "analysis.completed"
	TypeAnalysisFailed    Type = "analysis.failed"
	TypeAnalysisSkipped   Type = "analysis.skipped"
	TypeMonitorChanged    Type = "monitor.changed"
)

const subscriberBuffer = 64

type Event struct {
	ID        string           `json:"id"`
	Type      Type             `json:"type"`
	Origin    string           `json:"origin,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Result    *pipeline.Result `json:"result,omitempty"`
	Data      any              `json:"data,omitempty"`
}

func FromResult(result pipeline.Result) Event {
	typ := TypeAnalysisFailed
	switch {
	case result.Response != nil && result.Response.Success:
		typ = TypeAnalysisCompleted
	case result.Insignificant():
		typ = TypeAnalysisSkipped
	}
	return Event{
		ID:        shared.NewID("evt_"),
		Type:      typ,
		Timestamp: time.Now().UTC(),
		Result:    &result,
	}
}

// Hub fans events out to live subscribers. Slow subscribers lose events rather than block publishers.
type Hub struct {
	logger *slog.Logger

	mu     sync.RWMutex
	subs   map[string]chan Event
	closed bool
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger.With("component", "event-hub"),
		subs:   make(map[string]chan Event),
	}
}

// Subscribe registers a listener. Call the returned func to unsubscribe.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	id := shared.NewID("sub_")

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

func (h *Hub) Emit(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.logger.Warn("subscriber buffer full, dropping event", "subscriber", id, "type", evt.Type)
		}
	}
}

// Publish emits a pipeline outcome.
func (h *Hub) Publish(result pipeline.Result) {
	h.Emit(FromResult(result))
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
