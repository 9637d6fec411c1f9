package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/dto"
	"github.com/eleven-am/cortexview/internal/events"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/shared"
	"github.com/labstack/echo/v4"
)

type MonitorHandler struct {
	monitor   Monitor
	runner    Runner
	personas  PersonaSource
	hub       *events.Hub
	threshold float64
	logger    *slog.Logger
}

func NewMonitorHandler(monitor Monitor, runner Runner, personas PersonaSource, hub *events.Hub, threshold float64, logger *slog.Logger) *MonitorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &MonitorHandler{
		monitor:   monitor,
		runner:    runner,
		personas:  personas,
		hub:       hub,
		threshold: threshold,
		logger:    logger,
	}
}

func (h *MonitorHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Status)
	g.PUT("/target", h.SetTarget)
	g.POST("/start", h.Start)
	g.POST("/stop", h.Stop)
	g.PUT("/interval", h.SetInterval)
	g.POST("/capture", h.CaptureNow)
}

func (h *MonitorHandler) status() dto.MonitorStatusResponse {
	s := h.monitor.Status()
	resp := dto.MonitorStatusResponse{
		Running:    s.Running,
		IntervalMs: s.Interval.Milliseconds(),
		Skipped:    s.Skipped,
		Busy:       h.runner.Busy(),
		Stage:      h.runner.Stage().String(),
	}
	if s.Target != nil {
		resp.Target = &dto.MonitorTarget{
			Handle:    int64(s.Target.Handle),
			Title:     s.Target.Title,
			Persona:   s.Target.Persona.Name,
			Threshold: s.Target.Threshold,
		}
	}
	return resp
}

func (h *MonitorHandler) changed() dto.MonitorStatusResponse {
	status := h.status()
	if h.hub != nil {
		h.hub.Emit(events.Event{
			ID:        shared.NewID("evt_"),
			Type:      events.TypeMonitorChanged,
			Timestamp: time.Now().UTC(),
			Data:      status,
		})
	}
	return status
}

// Status godoc
// @Summary      Monitoring status
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  dto.MonitorStatusResponse
// @Router       /monitor [get]
func (h *MonitorHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status())
}

// SetTarget godoc
// @Summary      Set the monitored window
// @Tags         monitor
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SetTargetRequest  true  "Target"
// @Success      200      {object}  dto.MonitorStatusResponse
// @Failure      400      {object}  shared.APIError
// @Failure      404      {object}  shared.APIError
// @Router       /monitor/target [put]
func (h *MonitorHandler) SetTarget(c echo.Context) error {
	var req dto.SetTargetRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	persona, err := resolvePersona(h.personas, req.Persona)
	if err != nil {
		return shared.FromError(err)
	}

	threshold := h.threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	err = h.monitor.SetTarget(pipeline.Target{
		Handle:    capture.Handle(req.Handle),
		Title:     req.Title,
		Persona:   *persona,
		Threshold: threshold,
	})
	if err != nil {
		return shared.FromError(err)
	}

	return c.JSON(http.StatusOK, h.changed())
}

// Start godoc
// @Summary      Start monitoring
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  dto.MonitorStatusResponse
// @Failure      400  {object}  shared.APIError
// @Failure      409  {object}  shared.APIError
// @Router       /monitor/start [post]
func (h *MonitorHandler) Start(c echo.Context) error {
	if err := h.monitor.Start(); err != nil {
		return shared.FromError(err)
	}
	return c.JSON(http.StatusOK, h.changed())
}

// Stop godoc
// @Summary      Stop monitoring
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  dto.MonitorStatusResponse
// @Router       /monitor/stop [post]
func (h *MonitorHandler) Stop(c echo.Context) error {
	h.monitor.Stop()
	return c.JSON(http.StatusOK, h.changed())
}

// SetInterval godoc
// @Summary      Change the monitoring interval
// @Tags         monitor
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SetIntervalRequest  true  "Interval"
// @Success      200      {object}  dto.MonitorStatusResponse
// @Failure      400      {object}  shared.APIError
// @Router       /monitor/interval [put]
func (h *MonitorHandler) SetInterval(c echo.Context) error {
	var req dto.SetIntervalRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	if err := h.monitor.SetInterval(time.Duration(req.IntervalMs) * time.Millisecond); err != nil {
		return shared.FromError(err)
	}
	return c.JSON(http.StatusOK, h.changed())
}

// CaptureNow godoc
// @Summary      Analyze the monitored window now
// @Description  Runs a forced analysis of the current target, waiting for any scheduled run in flight
// @Tags         monitor
// @Produce      json
// @Success      200  {object}  dto.AnalysisResponse
// @Failure      400  {object}  shared.APIError
// @Router       /monitor/capture [post]
func (h *MonitorHandler) CaptureNow(c echo.Context) error {
	resp, err := h.monitor.CaptureNow(c.Request().Context())
	if err != nil {
		return shared.FromError(err)
	}
	return c.JSON(http.StatusOK, toAnalysisResponse(resp))
}
