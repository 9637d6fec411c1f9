package events

import (
	"testing"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/pipeline"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case evt, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestFromResult_Types(t *testing.T) {
	tests := []struct {
		name string
		resp *analysis.Response
		want Type
	}{
		{"success", analysis.NewSuccess("ok", 1), TypeAnalysisCompleted},
		{"gated", analysis.NewFailure("No significant change detected (1.0% < 10.0%)."), TypeAnalysisSkipped},
		{"failure", analysis.NewFailure("backend error"), TypeAnalysisFailed},
		{"nil response", nil, TypeAnalysisFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := FromResult(pipeline.Result{RunID: "run_1", Response: tt.resp})
			if evt.Type != tt.want {
				t.Errorf("expected %s, got %s", tt.want, evt.Type)
			}
			if evt.ID == "" || evt.Result == nil || evt.Result.RunID != "run_1" {
				t.Errorf("unexpected event %+v", evt)
			}
		})
	}
}

func TestHub_PublishFansOut(t *testing.T) {
	hub := NewHub(nil)
	a, unsubA := hub.Subscribe()
	b, unsubB := hub.Subscribe()
	defer unsubA()
	defer unsubB()

	if hub.Subscribers() != 2 {
		t.Errorf("expected 2 subscribers, got %d", hub.Subscribers())
	}

	hub.Publish(pipeline.Result{RunID: "run_1", Response: analysis.NewSuccess("ok", 1)})

	for _, ch := range []<-chan Event{a, b} {
		evt := receive(t, ch)
		if evt.Type != TypeAnalysisCompleted {
			t.Errorf("unexpected type %s", evt.Type)
		}
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub(nil)
	ch, unsub := hub.Subscribe()
	unsub()
	unsub()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after unsubscribe")
	}
	if hub.Subscribers() != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.Subscribers())
	}

	hub.Emit(Event{Type: TypeMonitorChanged})
}

func TestHub_DropsWhenSubscriberIsSlow(t *testing.T) {
	hub := NewHub(nil)
	ch, unsub := hub.Subscribe()
	defer unsub()

	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Emit(Event{Type: TypeMonitorChanged})
	}

	if len(ch) != subscriberBuffer {
		t.Errorf("expected buffer to hold %d events, got %d", subscriberBuffer, len(ch))
	}
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(nil)
	ch, unsub := hub.Subscribe()

	hub.Close()
	hub.Close()
	unsub()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}

	late, _ := hub.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscribing to a closed hub should return a closed channel")
	}
}
