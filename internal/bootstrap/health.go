package bootstrap

import (
	"github.com/eleven-am/cortexview/internal/events"
	"github.com/eleven-am/cortexview/internal/health"
	"github.com/eleven-am/cortexview/internal/monitor"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/provider"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const version = "1.0.0"

func ProvideHealthHandler(
	db *gorm.DB,
	redis *redis.Client,
	p provider.Provider,
	orchestrator *pipeline.Orchestrator,
	watcher *monitor.Watcher,
	hub *events.Hub,
) *health.Handler {
	return health.NewHandler(health.Options{
		DB:           db,
		Redis:        redis,
		Provider:     p,
		ProviderName: p.Name(),
		Pipeline:     orchestrator,
		Monitor:      watcher,
		Events:       hub,
		Version:      version,
	})
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			h.IncrementConnections()
			defer h.DecrementConnections()
			return next(c)
		}
	}
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	e.Use(metricsMiddleware(h))
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
