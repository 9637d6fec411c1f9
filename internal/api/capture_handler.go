package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/dto"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/shared"
	"github.com/labstack/echo/v4"
)

type CaptureHandler struct {
	runner    Runner
	personas  PersonaSource
	threshold float64
	logger    *slog.Logger
}

func NewCaptureHandler(runner Runner, personas PersonaSource, threshold float64, logger *slog.Logger) *CaptureHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &CaptureHandler{
		runner:    runner,
		personas:  personas,
		threshold: threshold,
		logger:    logger,
	}
}

func (h *CaptureHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Capture)
	g.POST("/retry", h.Retry)
}

// Capture godoc
// @Summary      Capture and analyze a window
// @Description  Captures the window, optionally gates on visual change, and returns the analysis. Forced by default.
// @Tags         capture
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CaptureRequest  true  "Capture parameters"
// @Success      200      {object}  dto.AnalysisResponse
// @Failure      400      {object}  shared.APIError
// @Failure      404      {object}  shared.APIError
// @Router       /capture [post]
func (h *CaptureHandler) Capture(c echo.Context) error {
	var req dto.CaptureRequest
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
	force := true
	if req.Force != nil {
		force = *req.Force
	}

	resp, err := h.runner.Run(c.Request().Context(), pipeline.Params{
		Handle:    capture.Handle(req.Handle),
		Title:     req.Title,
		Persona:   persona,
		Threshold: threshold,
		Force:     force,
	})
	if err != nil {
		return shared.FromError(err)
	}

	return c.JSON(http.StatusOK, toAnalysisResponse(resp))
}

// Retry godoc
// @Summary      Analyze the last capture again
// @Description  Sends the most recent capture of the window to the analyzer without recapturing
// @Tags         capture
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RetryRequest  true  "Retry parameters"
// @Success      200      {object}  dto.AnalysisResponse
// @Failure      400      {object}  shared.APIError
// @Failure      404      {object}  shared.APIError
// @Router       /capture/retry [post]
func (h *CaptureHandler) Retry(c echo.Context) error {
	var req dto.RetryRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	persona, err := resolvePersona(h.personas, req.Persona)
	if err != nil {
		return shared.FromError(err)
	}

	title := req.Title
	if title == "" {
		title = "Window " + capture.Handle(req.Handle).String()
	}

	resp, err := h.runner.Reanalyze(c.Request().Context(), pipeline.ReanalyzeParams{
		Handle:  capture.Handle(req.Handle),
		Title:   title,
		Persona: persona,
	})
	if errors.Is(err, pipeline.ErrNoCapture) {
		return shared.NotFound("no_capture", "no capture available for this window")
	}
	if err != nil {
		return shared.FromError(err)
	}

	return c.JSON(http.StatusOK, toAnalysisResponse(resp))
}

// RegionPinner stores fixed regions for handles the platform cannot resolve.
type RegionPinner interface {
	Set(handle capture.Handle, rect capture.Rect)
	Remove(handle capture.Handle)
}

type WindowHandler struct {
	capturer capture.Capturer
	pinner   RegionPinner
}

// NewWindowHandler serves window lookups. pinner may be nil, in which case
// the pin routes are not registered.
func NewWindowHandler(capturer capture.Capturer, pinner RegionPinner) *WindowHandler {
	return &WindowHandler{capturer: capturer, pinner: pinner}
}

func (h *WindowHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:handle", h.Get)
	if h.pinner != nil {
		g.PUT("/:handle", h.Pin)
		g.DELETE("/:handle", h.Unpin)
	}
}

// Get godoc
// @Summary      Resolve a window handle
// @Description  Returns the screen rectangle the handle currently occupies
// @Tags         windows
// @Produce      json
// @Param        handle  path      int  true  "Window handle"
// @Success      200     {object}  dto.WindowResponse
// @Failure      400     {object}  shared.APIError
// @Failure      404     {object}  shared.APIError
// @Router       /windows/{handle} [get]
func (h *WindowHandler) Get(c echo.Context) error {
	handle, err := parseHandle(c.Param("handle"))
	if err != nil {
		return shared.BadRequest("invalid_handle", "handle must be an integer")
	}

	rect, err := h.capturer.WindowRect(handle)
	if err != nil {
		return shared.NotFound("window_not_found", err.Error())
	}

	return c.JSON(http.StatusOK, dto.WindowResponse{
		Handle: int64(handle),
		X:      rect.X,
		Y:      rect.Y,
		Width:  rect.Width,
		Height: rect.Height,
	})
}

// Pin godoc
// @Summary      Pin a screen region to a handle
// @Description  Subsequent captures of the handle grab this region
// @Tags         windows
// @Accept       json
// @Produce      json
// @Param        handle   path      int                   true  "Window handle"
// @Param        request  body      dto.PinWindowRequest  true  "Region"
// @Success      200      {object}  dto.WindowResponse
// @Failure      400      {object}  shared.APIError
// @Router       /windows/{handle} [put]
func (h *WindowHandler) Pin(c echo.Context) error {
	handle, err := parseHandle(c.Param("handle"))
	if err != nil {
		return shared.BadRequest("invalid_handle", "handle must be an integer")
	}

	var req dto.PinWindowRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}
	rect := capture.Rect{X: req.X, Y: req.Y, Width: req.Width, Height: req.Height}
	if rect.Empty() {
		return shared.BadRequest("invalid_region", "width and height must be positive")
	}

	h.pinner.Set(handle, rect)
	return c.JSON(http.StatusOK, dto.WindowResponse{
		Handle: int64(handle),
		X:      rect.X,
		Y:      rect.Y,
		Width:  rect.Width,
		Height: rect.Height,
	})
}

// Unpin godoc
// @Summary      Remove a pinned region
// @Tags         windows
// @Param        handle  path  int  true  "Window handle"
// @Success      204
// @Failure      400  {object}  shared.APIError
// @Router       /windows/{handle} [delete]
func (h *WindowHandler) Unpin(c echo.Context) error {
	handle, err := parseHandle(c.Param("handle"))
	if err != nil {
		return shared.BadRequest("invalid_handle", "handle must be an integer")
	}
	h.pinner.Remove(handle)
	return c.NoContent(http.StatusNoContent)
}
