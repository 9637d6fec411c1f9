package events

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const sseKeepAliveInterval = 30 * time.Second

type SSEConn struct {
	writer    http.ResponseWriter
	flusher   http.Flusher
	keepAlive time.Duration
}

func NewSSEConn(w http.ResponseWriter) (*SSEConn, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, http.ErrNotSupported
	}
	return &SSEConn{
		writer:    w,
		flusher:   flusher,
		keepAlive: sseKeepAliveInterval,
	}, nil
}

// Run streams events until the channel closes or ctx is done.
func (c *SSEConn) Run(ctx context.Context, events <-chan Event) error {
	ticker := time.NewTicker(c.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.writeEvent(evt); err != nil {
				return err
			}
		case <-ticker.C:
			if err := c.writeKeepAlive(); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *SSEConn) writeEvent(evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if _, err := c.writer.Write([]byte("event: " + string(evt.Type) + "\n")); err != nil {
		return err
	}
	if _, err := c.writer.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := c.writer.Write(data); err != nil {
		return err
	}
	if _, err := c.writer.Write([]byte("\n\n")); err != nil {
		return err
	}

	c.flusher.Flush()
	return nil
}

func (c *SSEConn) writeKeepAlive() error {
	if _, err := c.writer.Write([]byte(":keepalive\n\n")); err != nil {
		return err
	}
	c.flusher.Flush()
	return nil
}
