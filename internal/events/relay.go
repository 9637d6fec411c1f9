package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/shared"
	"github.com/redis/go-redis/v9"
)

const relayChannel = "cortexview:events"

// Relay mirrors pipeline outcomes over redis pub/sub so several instances share one event stream.
type Relay struct {
	redis  *redis.Client
	origin string
	logger *slog.Logger
}

func NewRelay(redisClient *redis.Client, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		redis:  redisClient,
		origin: shared.NewID("node_"),
		logger: logger.With("component", "event-relay"),
	}
}

func (r *Relay) Origin() string {
	return r.origin
}

func (r *Relay) Publish(result pipeline.Result) {
	evt := FromResult(result)
	if err := r.Send(context.Background(), evt); err != nil {
		r.logger.Warn("failed to relay event", "type", evt.Type, "error", err)
	}
}

func (r *Relay) Send(ctx context.Context, evt Event) error {
	evt.Origin = r.origin
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return r.redis.Publish(ctx, relayChannel, data).Err()
}

// Listen forwards events published by other instances into hub until ctx is done.
func (r *Relay) Listen(ctx context.Context, hub *Hub) error {
	pubsub := r.redis.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", relayChannel, err)
	}

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("receive event: %w", err)
		}

		var evt Event
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
			r.logger.Error("unmarshal relayed event", "error", err)
			continue
		}
		if evt.Origin == r.origin {
			continue
		}
		hub.Emit(evt)
	}
}
