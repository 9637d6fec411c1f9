package api

import (
	"log/slog"
	"net/http"

	"github.com/eleven-am/cortexview/internal/dto"
	"github.com/eleven-am/cortexview/internal/shared"
	"github.com/eleven-am/cortexview/internal/storage"
	"github.com/labstack/echo/v4"
)

type ScreenshotStore interface {
	storage.Storage
	Dir() string
}

type StorageHandler struct {
	store  ScreenshotStore
	logger *slog.Logger
}

func NewStorageHandler(store ScreenshotStore, logger *slog.Logger) *StorageHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StorageHandler{store: store, logger: logger}
}

func (h *StorageHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/cleanup", h.Cleanup)
	g.DELETE("", h.Purge)
}

// Cleanup godoc
// @Summary      Delete screenshots past retention
// @Tags         storage
// @Produce      json
// @Success      200  {object}  dto.StorageResponse
// @Failure      500  {object}  shared.APIError
// @Router       /storage/cleanup [post]
func (h *StorageHandler) Cleanup(c echo.Context) error {
	if err := h.store.CleanupOldFiles(c.Request().Context()); err != nil {
		h.logger.Error("storage cleanup failed", "error", err)
		return shared.InternalError("cleanup_failed", "failed to clean up screenshots")
	}
	return c.JSON(http.StatusOK, dto.StorageResponse{Status: "cleaned", Path: h.store.Dir()})
}

// Purge godoc
// @Summary      Delete every stored screenshot and audit log
// @Tags         storage
// @Produce      json
// @Success      200  {object}  dto.StorageResponse
// @Failure      500  {object}  shared.APIError
// @Router       /storage [delete]
func (h *StorageHandler) Purge(c echo.Context) error {
	if err := h.store.PurgeAll(c.Request().Context()); err != nil {
		h.logger.Error("storage purge failed", "error", err)
		return shared.InternalError("purge_failed", "failed to purge storage")
	}
	return c.JSON(http.StatusOK, dto.StorageResponse{Status: "purged", Path: h.store.Dir()})
}
