package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRelay_ForwardsRemoteEvents(t *testing.T) {
	client := newTestRedis(t)
	local := NewRelay(client, nil)
	remote := NewRelay(client, nil)

	if local.Origin() == remote.Origin() {
		t.Fatal("relays must have distinct origins")
	}

	hub := NewHub(nil)
	events, unsub := hub.Subscribe()
	defer unsub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- local.Listen(ctx, hub) }()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		n, _ := client.PubSubNumSub(ctx, relayChannel).Result()
		if n[relayChannel] > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	local.Publish(pipeline.Result{RunID: "run_local", Response: analysis.NewSuccess("ok", 1)})
	remote.Publish(pipeline.Result{RunID: "run_remote", Response: analysis.NewSuccess("ok", 1)})

	evt := receive(t, events)
	if evt.Result == nil || evt.Result.RunID != "run_remote" {
		t.Errorf("expected only the remote event, got %+v", evt.Result)
	}
	if evt.Origin != remote.Origin() {
		t.Errorf("expected remote origin, got %s", evt.Origin)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Listen() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Listen did not return after cancel")
	}
}
