package bootstrap

import (
	"log/slog"

	"github.com/eleven-am/cortexview/internal/api"
	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/events"
	"github.com/eleven-am/cortexview/internal/history"
	"github.com/eleven-am/cortexview/internal/monitor"
	"github.com/eleven-am/cortexview/internal/persona"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/storage"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

type HandlerParams struct {
	fx.In

	CaptureHandler *api.CaptureHandler
	WindowHandler  *api.WindowHandler
	MonitorHandler *api.MonitorHandler
	PersonaHandler *api.PersonaHandler
	HistoryHandler *api.HistoryHandler
	StorageHandler *api.StorageHandler
	EventsHandler  *events.Handler
	Config         *Config
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	v1 := e.Group("/v1")

	limiter := api.RateLimiter(api.RateLimiterConfig{
		RequestsPerSecond: params.Config.CaptureRateLimit,
		Burst:             params.Config.CaptureRateBurst,
	})
	params.CaptureHandler.RegisterRoutes(v1.Group("/capture", limiter))
	params.WindowHandler.RegisterRoutes(v1.Group("/windows"))
	params.MonitorHandler.RegisterRoutes(v1.Group("/monitor"))
	params.PersonaHandler.RegisterRoutes(v1.Group("/personas"))
	params.HistoryHandler.RegisterRoutes(v1.Group("/history"))
	params.StorageHandler.RegisterRoutes(v1.Group("/storage"))
	params.EventsHandler.RegisterRoutes(v1.Group("/events"))

	e.GET("/swagger/*", echoSwagger.EchoWrapHandlerV3())
}

func ProvideCaptureHandler(cfg *Config, orchestrator *pipeline.Orchestrator, personas *persona.Loader, logger *slog.Logger) *api.CaptureHandler {
	return api.NewCaptureHandler(orchestrator, personas, cfg.Sensitivity, logger.With("handler", "capture"))
}

func ProvideWindowHandler(capturer *capture.Screen, regions *capture.RegionLocator) *api.WindowHandler {
	return api.NewWindowHandler(capturer, regions)
}

func ProvideMonitorHandler(cfg *Config, watcher *monitor.Watcher, orchestrator *pipeline.Orchestrator, personas *persona.Loader, hub *events.Hub, logger *slog.Logger) *api.MonitorHandler {
	return api.NewMonitorHandler(watcher, orchestrator, personas, hub, cfg.Sensitivity, logger.With("handler", "monitor"))
}

func ProvidePersonaHandler(personas *persona.Loader) *api.PersonaHandler {
	return api.NewPersonaHandler(personas)
}

func ProvideHistoryHandler(store *history.Store, logger *slog.Logger) *api.HistoryHandler {
	var source api.HistoryStore
	if store != nil {
		source = store
	}
	return api.NewHistoryHandler(source, logger.With("handler", "history"))
}

func ProvideStorageHandler(store *storage.LocalStore, logger *slog.Logger) *api.StorageHandler {
	return api.NewStorageHandler(store, logger.With("handler", "storage"))
}

func ProvideEventsHandler(hub *events.Hub, logger *slog.Logger) *events.Handler {
	return events.NewHandler(hub, logger.With("handler", "events"))
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideCaptureHandler,
		ProvideWindowHandler,
		ProvideMonitorHandler,
		ProvidePersonaHandler,
		ProvideHistoryHandler,
		ProvideStorageHandler,
		ProvideEventsHandler,
	),
	fx.Invoke(RegisterRoutes),
)
