package provider

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eleven-am/cortexview/internal/analysis"
	"github.com/eleven-am/cortexview/internal/shared"
)

const (
	KindMock   = "mock"
	KindOllama = "ollama"
	KindOpenAI = "openai"
)

type Config struct {
	Kind      string
	OllamaURL string
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	MockDelay time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 60 * time.Second
	}
	return c.Timeout
}

// Provider is an analyzer that can report whether its backend is reachable.
type Provider interface {
	analysis.Analyzer
	Name() string
}

func New(cfg Config, logger *slog.Logger) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindMock:
		return NewMock(cfg.MockDelay), nil
	case KindOllama:
		return NewOllama(cfg, logger), nil
	case KindOpenAI:
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("openai provider needs an API key or base URL: %w", shared.ErrInvalidInput)
		}
		return NewOpenAI(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: %w", cfg.Kind, shared.ErrInvalidInput)
	}
}
