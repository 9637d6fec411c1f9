package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/eleven-am/cortexview/internal/dto"
	"github.com/eleven-am/cortexview/internal/shared"
	"github.com/labstack/echo/v4"
)

type HistoryHandler struct {
	store  HistoryStore
	logger *slog.Logger
}

// NewHistoryHandler accepts a nil store; the routes then answer 404.
func NewHistoryHandler(store HistoryStore, logger *slog.Logger) *HistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryHandler{store: store, logger: logger}
}

func (h *HistoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/usage", h.Usage)
	g.GET("/:id", h.Get)
	g.DELETE("", h.Prune)
}

func parseDays(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, shared.BadRequest("invalid_days", "days must be a positive integer")
	}
	return n, nil
}

func (h *HistoryHandler) disabled() error {
	return shared.NotFound("history_disabled", "history is not configured")
}

// List godoc
// @Summary      Recent analyses
// @Tags         history
// @Produce      json
// @Param        limit    query     int     false  "Maximum entries (default 20, max 200)"
// @Param        persona  query     string  false  "Filter by persona"
// @Success      200      {object}  dto.HistoryListResponse
// @Failure      400      {object}  shared.APIError
// @Failure      404      {object}  shared.APIError
// @Router       /history [get]
func (h *HistoryHandler) List(c echo.Context) error {
	if h.store == nil {
		return h.disabled()
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return shared.BadRequest("invalid_limit", "limit must be a non-negative integer")
		}
		limit = n
	}

	records, err := h.store.Recent(c.Request().Context(), c.QueryParam("persona"), limit)
	if err != nil {
		h.logger.Error("failed to list history", "error", err)
		return shared.InternalError("history_failed", "failed to list history")
	}

	resp := dto.HistoryListResponse{Entries: make([]dto.HistoryEntry, len(records))}
	for i, r := range records {
		resp.Entries[i] = toHistoryEntry(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// Usage godoc
// @Summary      Token usage per persona
// @Tags         history
// @Produce      json
// @Param        days  query     int  false  "Look-back window in days (default 7)"
// @Success      200   {object}  dto.UsageResponse
// @Failure      400   {object}  shared.APIError
// @Failure      404   {object}  shared.APIError
// @Router       /history/usage [get]
func (h *HistoryHandler) Usage(c echo.Context) error {
	if h.store == nil {
		return h.disabled()
	}

	days, err := parseDays(c.QueryParam("days"), 7)
	if err != nil {
		return err
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	usage, err := h.store.UsageSince(c.Request().Context(), since)
	if err != nil {
		h.logger.Error("failed to aggregate usage", "error", err)
		return shared.InternalError("usage_failed", "failed to aggregate usage")
	}

	resp := dto.UsageResponse{Since: formatTime(since), Usage: make([]dto.UsageEntry, len(usage))}
	for i, u := range usage {
		resp.Usage[i] = dto.UsageEntry{Persona: u.Persona, Analyses: u.Analyses, TokenUsage: u.TokenUsage}
	}
	return c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      One analysis
// @Tags         history
// @Produce      json
// @Param        id   path      string  true  "History id"
// @Success      200  {object}  dto.HistoryEntry
// @Failure      404  {object}  shared.APIError
// @Router       /history/{id} [get]
func (h *HistoryHandler) Get(c echo.Context) error {
	if h.store == nil {
		return h.disabled()
	}

	rec, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound("not_found", "history entry not found")
	}
	if err != nil {
		h.logger.Error("failed to load history entry", "id", c.Param("id"), "error", err)
		return shared.InternalError("history_failed", "failed to load history entry")
	}
	return c.JSON(http.StatusOK, toHistoryEntry(rec))
}

// Prune godoc
// @Summary      Delete old analyses
// @Tags         history
// @Produce      json
// @Param        days  query     int  true  "Keep entries newer than this many days"
// @Success      200   {object}  dto.PruneResponse
// @Failure      400   {object}  shared.APIError
// @Failure      404   {object}  shared.APIError
// @Router       /history [delete]
func (h *HistoryHandler) Prune(c echo.Context) error {
	if h.store == nil {
		return h.disabled()
	}

	days, err := parseDays(c.QueryParam("days"), 0)
	if err != nil {
		return err
	}
	if days == 0 {
		return shared.BadRequest("invalid_days", "days is required")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	deleted, err := h.store.DeleteBefore(c.Request().Context(), cutoff)
	if err != nil {
		h.logger.Error("failed to prune history", "error", err)
		return shared.InternalError("prune_failed", "failed to prune history")
	}
	h.logger.Info("history pruned", "deleted", deleted, "before", cutoff)
	return c.JSON(http.StatusOK, dto.PruneResponse{Deleted: deleted, Before: formatTime(cutoff)})
}
