package events

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:    hub,
		logger: logger.With("component", "events_handler"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Stream)
}

// Stream serves pipeline events as SSE when the client accepts text/event-stream, otherwise over WebSocket.
func (h *Handler) Stream(c echo.Context) error {
	if strings.Contains(c.Request().Header.Get("Accept"), "text/event-stream") {
		return h.handleSSE(c)
	}
	if websocket.IsWebSocketUpgrade(c.Request()) {
		return h.handleWebSocket(c)
	}
	return echo.NewHTTPError(http.StatusBadRequest, "expected text/event-stream or websocket upgrade")
}

func (h *Handler) handleSSE(c echo.Context) error {
	res := c.Response()
	res.Header().Set("Content-Type", "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	conn, err := NewSSEConn(res)
	if err != nil {
		h.logger.Error("failed to create SSE connection", "error", err)
		return nil
	}

	events, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	h.logger.Info("event subscriber connected (SSE)")
	_ = conn.Run(c.Request().Context(), events)
	h.logger.Info("event subscriber disconnected (SSE)")
	return nil
}

func (h *Handler) handleWebSocket(c echo.Context) error {
	ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return err
	}

	events, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	h.logger.Info("event subscriber connected (WebSocket)")
	_ = NewWSConn(ws, h.logger).Run(c.Request().Context(), events)
	h.logger.Info("event subscriber disconnected (WebSocket)")
	return nil
}
