package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/cortexview/internal/capture"
	"github.com/eleven-am/cortexview/internal/detector"
	"github.com/eleven-am/cortexview/internal/events"
	"github.com/eleven-am/cortexview/internal/history"
	"github.com/eleven-am/cortexview/internal/monitor"
	"github.com/eleven-am/cortexview/internal/persona"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/eleven-am/cortexview/internal/provider"
	"github.com/eleven-am/cortexview/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func ProvidePersonaLoader(cfg *Config, logger *slog.Logger) *persona.Loader {
	return persona.NewLoader(cfg.PromptsDir, logger)
}

func ProvideProvider(cfg *Config, logger *slog.Logger) (provider.Provider, error) {
	return provider.New(cfg.ProviderConfig(), logger)
}

func ProvideDetector(cfg *Config) *detector.Detector {
	return detector.New(cfg.DetectorOptions()...)
}

func ProvideRegionLocator() *capture.RegionLocator {
	return capture.NewRegionLocator()
}

// ProvideCapturer resolves pinned regions first and falls back to display indexes.
func ProvideCapturer(regions *capture.RegionLocator, logger *slog.Logger) *capture.Screen {
	return capture.NewScreen(capture.ChainLocator{regions, capture.DisplayLocator{}}, logger)
}

func ProvideScreenshotStore(cfg *Config, logger *slog.Logger) *storage.LocalStore {
	return storage.NewLocalStore(storage.Config{
		Enabled:       cfg.StorageEnabled,
		Path:          cfg.StoragePath,
		RetentionDays: cfg.RetentionDays,
	}, logger)
}

func ProvideAuditLog(store *storage.LocalStore, logger *slog.Logger) *storage.AuditLog {
	return storage.NewAuditLog(store.Dir(), logger)
}

func ProvideFrameCache(cfg *Config, redisClient *redis.Client) storage.FrameCache {
	if redisClient == nil {
		return storage.NewMemoryFrameCache()
	}
	return storage.NewRedisFrameCache(redisClient, cfg.FrameTTL)
}

func ProvideHub(lc fx.Lifecycle, logger *slog.Logger) *events.Hub {
	hub := events.NewHub(logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			hub.Close()
			return nil
		},
	})
	return hub
}

// ProvideRelay returns nil without redis. Otherwise it listens for events
// from other instances for the lifetime of the app.
func ProvideRelay(lc fx.Lifecycle, redisClient *redis.Client, hub *events.Hub, logger *slog.Logger) *events.Relay {
	if redisClient == nil {
		return nil
	}
	relay := events.NewRelay(redisClient, logger)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := relay.Listen(ctx, hub); err != nil {
					logger.Error("event relay stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return relay
}

type OrchestratorParams struct {
	fx.In

	Capturer *capture.Screen
	Detector *detector.Detector
	Provider provider.Provider
	Store    *storage.LocalStore
	Audit    *storage.AuditLog
	Frames   storage.FrameCache
	Hub      *events.Hub
	Relay    *events.Relay
	History  *history.Store
	Logger   *slog.Logger
}

func ProvideOrchestrator(p OrchestratorParams) *pipeline.Orchestrator {
	deps := pipeline.Dependencies{
		Capturer:   p.Capturer,
		Detector:   p.Detector,
		Analyzer:   p.Provider,
		Storage:    p.Store,
		Auditor:    p.Audit,
		Frames:     p.Frames,
		Publishers: []pipeline.Publisher{p.Hub},
	}
	if p.Relay != nil {
		deps.Publishers = append(deps.Publishers, p.Relay)
	}
	if p.History != nil {
		deps.Recorders = append(deps.Recorders, p.History)
	}
	return pipeline.NewOrchestrator(deps, p.Logger)
}

func ProvideWatcher(lc fx.Lifecycle, cfg *Config, orchestrator *pipeline.Orchestrator, logger *slog.Logger) *monitor.Watcher {
	watcher := monitor.NewWatcher(orchestrator, cfg.MonitorInterval, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return watcher.Close()
		},
	})
	return watcher
}

// CleanupScreenshots applies the retention window once at startup.
func CleanupScreenshots(lc fx.Lifecycle, store *storage.LocalStore, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := store.CleanupOldFiles(context.Background()); err != nil {
					logger.Warn("startup storage cleanup failed", "error", err)
				}
			}()
			return nil
		},
	})
}

func LogStartup(cfg *Config, p provider.Provider, personas *persona.Loader, logger *slog.Logger) {
	logger.Info("cortexview pipeline ready",
		"provider", p.Name(),
		"personas", len(personas.Personas()),
		"monitor_interval", cfg.MonitorInterval,
		"sensitivity", cfg.Sensitivity,
		"history", cfg.DatabaseDSN != "",
		"redis", cfg.RedisAddr != "",
	)
}

var PipelineModule = fx.Options(
	fx.Provide(
		ProvidePersonaLoader,
		ProvideProvider,
		ProvideDetector,
		ProvideRegionLocator,
		ProvideCapturer,
		ProvideScreenshotStore,
		ProvideAuditLog,
		ProvideFrameCache,
		ProvideHub,
		ProvideRelay,
		ProvideOrchestrator,
		ProvideWatcher,
	),
	fx.Invoke(CleanupScreenshots, LogStartup),
)
