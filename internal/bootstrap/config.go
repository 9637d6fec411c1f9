package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eleven-am/cortexview/internal/detector"
	"github.com/eleven-am/cortexview/internal/provider"
	"github.com/eleven-am/cortexview/internal/shared"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	AIProvider    string
	OllamaURL     string
	OllamaModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	AITimeout     time.Duration
	AIRetries     int

	StorageEnabled bool
	StoragePath    string
	RetentionDays  int

	PromptsDir      string
	MonitorInterval time.Duration
	Sensitivity     float64

	GridWidth      int
	GridHeight     int
	NoiseThreshold int

	CaptureRateLimit float64
	CaptureRateBurst int

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	FrameTTL      time.Duration
}

// LoadConfig reads the environment, after loading .env from the working
// directory when one exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		AIProvider:    strings.ToLower(getEnv("AI_PROVIDER", provider.KindMock)),
		OllamaURL:     getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "qwen2.5vl"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
		AITimeout:     getEnvDuration("AI_TIMEOUT", 60*time.Second),
		AIRetries:     getEnvInt("AI_RETRIES", 2),

		StorageEnabled: getEnvBool("STORAGE_ENABLED", true),
		StoragePath:    getEnv("STORAGE_PATH", ""),
		RetentionDays:  getEnvInt("RETENTION_DAYS", 7),

		PromptsDir:      getEnv("PROMPTS_DIR", "./prompts"),
		MonitorInterval: getEnvDuration("MONITOR_INTERVAL", 5*time.Second),
		Sensitivity:     getEnvFloat("SENSITIVITY", 0.10),

		GridWidth:      getEnvInt("DETECTOR_GRID_WIDTH", detector.DefaultGridWidth),
		GridHeight:     getEnvInt("DETECTOR_GRID_HEIGHT", detector.DefaultGridHeight),
		NoiseThreshold: getEnvInt("DETECTOR_NOISE", detector.DefaultNoiseThreshold),

		CaptureRateLimit: getEnvFloat("CAPTURE_RATE_LIMIT", 1),
		CaptureRateBurst: getEnvInt("CAPTURE_RATE_BURST", 5),

		DatabaseDSN: getEnv("DATABASE_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		FrameTTL:      getEnvDuration("FRAME_TTL", time.Hour),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Sensitivity < 0 || c.Sensitivity > 1 {
		return fmt.Errorf("%w: SENSITIVITY must be within [0, 1], got %v", shared.ErrInvalidInput, c.Sensitivity)
	}
	if c.MonitorInterval <= 0 {
		return fmt.Errorf("%w: MONITOR_INTERVAL must be positive", shared.ErrInvalidInput)
	}
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("%w: detector grid must be positive, got %dx%d", shared.ErrInvalidInput, c.GridWidth, c.GridHeight)
	}
	if c.NoiseThreshold < 0 || c.NoiseThreshold > 255 {
		return fmt.Errorf("%w: DETECTOR_NOISE must be within [0, 255]", shared.ErrInvalidInput)
	}
	switch c.AIProvider {
	case provider.KindMock, provider.KindOllama, provider.KindOpenAI:
	default:
		return fmt.Errorf("%w: unknown AI_PROVIDER %q", shared.ErrInvalidInput, c.AIProvider)
	}
	return nil
}

func (c *Config) DetectorOptions() []detector.Option {
	return []detector.Option{
		detector.WithGrid(c.GridWidth, c.GridHeight),
		detector.WithNoiseThreshold(c.NoiseThreshold),
	}
}

func (c *Config) ProviderConfig() provider.Config {
	cfg := provider.Config{
		Kind:      c.AIProvider,
		OllamaURL: c.OllamaURL,
		APIKey:    c.OpenAIAPIKey,
		BaseURL:   c.OpenAIBaseURL,
		Timeout:   c.AITimeout,
		Retries:   c.AIRetries,
	}
	switch c.AIProvider {
	case provider.KindOllama:
		cfg.Model = c.OllamaModel
	case provider.KindOpenAI:
		cfg.Model = c.OpenAIModel
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("5s") or a bare number of milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
