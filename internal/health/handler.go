package health

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eleven-am/cortexview/internal/monitor"
	"github.com/eleven-am/cortexview/internal/pipeline"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusDisabled  Status = "disabled"
)

type ComponentStatus struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type RuntimeStats struct {
	Goroutines         int    `json:"goroutines"`
	MemoryAllocMB      uint64 `json:"memory_alloc_mb"`
	MemoryTotalAllocMB uint64 `json:"memory_total_alloc_mb"`
	MemorySysMB        uint64 `json:"memory_sys_mb"`
	NumGC              uint32 `json:"num_gc"`
}

type PipelineStats struct {
	Busy  bool   `json:"busy"`
	Stage string `json:"stage"`
}

type MonitorStats struct {
	Running    bool  `json:"running"`
	IntervalMs int64 `json:"interval_ms"`
	Skipped    int64 `json:"skipped"`
}

type RequestStats struct {
	TotalRequests     uint64 `json:"total_requests"`
	ActiveConnections int64  `json:"active_connections"`
	EventSubscribers  int    `json:"event_subscribers"`
}

type Stats struct {
	Pipeline PipelineStats `json:"pipeline"`
	Monitor  MonitorStats  `json:"monitor"`
	Requests RequestStats  `json:"requests"`
	Runtime  RuntimeStats  `json:"runtime"`
}

type HealthResponse struct {
	Status        Status                     `json:"status"`
	Timestamp     time.Time                  `json:"timestamp"`
	Version       string                     `json:"version"`
	Provider      string                     `json:"provider"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Stats         Stats                      `json:"stats"`
	Components    map[string]ComponentStatus `json:"components"`
}

// AvailabilityChecker is implemented by analyzers that can probe their backend.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context) bool
}

type PipelineState interface {
	Busy() bool
	Stage() pipeline.Stage
}

type MonitorState interface {
	Status() monitor.Status
}

type SubscriberCounter interface {
	Subscribers() int
}

type Options struct {
	DB           *gorm.DB
	Redis        *redis.Client
	Provider     any
	ProviderName string
	Pipeline     PipelineState
	Monitor      MonitorState
	Events       SubscriberCounter
	Version      string
}

type Handler struct {
	opts      Options
	startTime time.Time

	totalRequests     uint64
	activeConnections int64
}

// NewHandler builds a health handler. DB and Redis are optional; a nil one
// reports as disabled and does not affect the overall status.
func NewHandler(opts Options) *Handler {
	return &Handler{
		opts:      opts,
		startTime: time.Now(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Liveness)
	e.GET("/health/ready", h.Readiness)
}

func (h *Handler) IncrementRequests() {
	atomic.AddUint64(&h.totalRequests, 1)
}

func (h *Handler) IncrementConnections() {
	atomic.AddInt64(&h.activeConnections, 1)
}

func (h *Handler) DecrementConnections() {
	atomic.AddInt64(&h.activeConnections, -1)
}

// Liveness godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Checks the database, redis and the AI provider, and reports pipeline and monitor state
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health/ready [get]
func (h *Handler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	components := make(map[string]ComponentStatus)
	var mu sync.Mutex
	var wg sync.WaitGroup

	checks := []struct {
		name  string
		check func(context.Context) ComponentStatus
	}{
		{"database", h.checkDatabase},
		{"redis", h.checkRedis},
		{"provider", h.checkProvider},
	}

	wg.Add(len(checks))
	for _, check := range checks {
		go func(name string, fn func(context.Context) ComponentStatus) {
			defer wg.Done()
			status := fn(ctx)
			mu.Lock()
			components[name] = status
			mu.Unlock()
		}(check.name, check.check)
	}
	wg.Wait()

	overallStatus := computeOverallStatus(components)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	resp := HealthResponse{
		Status:        overallStatus,
		Timestamp:     time.Now().UTC(),
		Version:       h.opts.Version,
		Provider:      h.opts.ProviderName,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Stats: Stats{
			Pipeline: h.pipelineStats(),
			Monitor:  h.monitorStats(),
			Requests: RequestStats{
				TotalRequests:     atomic.LoadUint64(&h.totalRequests),
				ActiveConnections: atomic.LoadInt64(&h.activeConnections),
			},
			Runtime: RuntimeStats{
				Goroutines:         runtime.NumGoroutine(),
				MemoryAllocMB:      memStats.Alloc / 1024 / 1024,
				MemoryTotalAllocMB: memStats.TotalAlloc / 1024 / 1024,
				MemorySysMB:        memStats.Sys / 1024 / 1024,
				NumGC:              memStats.NumGC,
			},
		},
		Components: components,
	}
	if h.opts.Events != nil {
		resp.Stats.Requests.EventSubscribers = h.opts.Events.Subscribers()
	}

	statusCode := http.StatusOK
	if overallStatus == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, resp)
}

func (h *Handler) pipelineStats() PipelineStats {
	if h.opts.Pipeline == nil {
		return PipelineStats{Stage: pipeline.StageIdle.String()}
	}
	return PipelineStats{
		Busy:  h.opts.Pipeline.Busy(),
		Stage: h.opts.Pipeline.Stage().String(),
	}
}

func (h *Handler) monitorStats() MonitorStats {
	if h.opts.Monitor == nil {
		return MonitorStats{}
	}
	s := h.opts.Monitor.Status()
	return MonitorStats{
		Running:    s.Running,
		IntervalMs: s.Interval.Milliseconds(),
		Skipped:    s.Skipped,
	}
}

func (h *Handler) checkDatabase(ctx context.Context) ComponentStatus {
	start := time.Now()
	if h.opts.DB == nil {
		return ComponentStatus{Status: StatusDisabled}
	}

	sqlDB, err := h.opts.DB.DB()
	if err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "failed to get underlying db",
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}

	return ComponentStatus{
		Status:    evaluateDBStats(sqlDB.Stats()),
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func evaluateDBStats(stats sql.DBStats) Status {
	if stats.OpenConnections >= stats.MaxOpenConnections && stats.MaxOpenConnections > 1 {
		return StatusDegraded
	}
	return StatusHealthy
}

func (h *Handler) checkRedis(ctx context.Context) ComponentStatus {
	start := time.Now()
	if h.opts.Redis == nil {
		return ComponentStatus{Status: StatusDisabled}
	}

	if err := h.opts.Redis.Ping(ctx).Err(); err != nil {
		return ComponentStatus{
			Status:    StatusUnhealthy,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}

	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// checkProvider probes providers that support it. The others are assumed healthy.
func (h *Handler) checkProvider(ctx context.Context) ComponentStatus {
	start := time.Now()
	checker, ok := h.opts.Provider.(AvailabilityChecker)
	if !ok {
		return ComponentStatus{Status: StatusHealthy}
	}

	if !checker.IsAvailable(ctx) {
		return ComponentStatus{
			Status:    StatusDegraded,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "provider unreachable",
		}
	}

	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// computeOverallStatus treats the database and redis as critical. A provider
// outage only degrades, since manual captures still report the failure inline.
func computeOverallStatus(components map[string]ComponentStatus) Status {
	criticalComponents := []string{"database", "redis"}

	for _, name := range criticalComponents {
		if status, ok := components[name]; ok && status.Status == StatusUnhealthy {
			return StatusUnhealthy
		}
	}

	for _, status := range components {
		if status.Status == StatusUnhealthy || status.Status == StatusDegraded {
			return StatusDegraded
		}
	}

	return StatusHealthy
}
