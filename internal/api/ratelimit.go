package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/eleven-am/cortexview/internal/shared"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiterConfig bounds how often one client may trigger model calls.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
	IdleTimeout       time.Duration
}

func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 1,
		Burst:             5,
		IdleTimeout:       5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	config   RateLimiterConfig
	now      func() time.Time
}

func newRateLimiterStore(cfg RateLimiterConfig) *rateLimiterStore {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultRateLimiterConfig().IdleTimeout
	}
	return &rateLimiterStore{
		limiters: make(map[string]*clientLimiter),
		config:   cfg,
		now:      time.Now,
	}
}

// allow reports whether key may proceed, dropping limiters idle past IdleTimeout on the way.
func (s *rateLimiterStore) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, cl := range s.limiters {
		if now.Sub(cl.lastSeen) > s.config.IdleTimeout {
			delete(s.limiters, k)
		}
	}

	cl, ok := s.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.config.RequestsPerSecond), s.config.Burst)}
		s.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// RateLimiter limits requests per client IP. A non-positive rate disables it.
func RateLimiter(cfg RateLimiterConfig) echo.MiddlewareFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	store := newRateLimiterStore(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !store.allow(c.RealIP()) {
				return shared.NewAPIError("rate_limit_exceeded", "too many analysis requests").
					WithDetails(map[string]any{"requests_per_second": cfg.RequestsPerSecond, "burst": cfg.Burst}).
					ToHTTP(http.StatusTooManyRequests)
			}
			return next(c)
		}
	}
}
