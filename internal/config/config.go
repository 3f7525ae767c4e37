package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Worker    WorkerConfig
	Prefetch  PrefetchConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	DB        DatabaseConfig
	Logging   LoggingConfig

	ShutdownTimeout time.Duration
}

type ServerConfig struct {
	Host string
	Port int
}

// CatalogConfig describes how to reach NASA NeoWs. APIKey and FallbackAPIKey
// are the two environment credential sources, checked in that order.
type CatalogConfig struct {
	BaseURL        string
	APIKey         string
	FallbackAPIKey string
	Timeout        time.Duration
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type PrefetchConfig struct {
	Watchlist []string
	Interval  time.Duration
}

type RateLimitConfig struct {
	RPS int
}

type CORSConfig struct {
	AllowOrigins []string
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Max catalog timeout; lookups sit on the request path.
const maxCatalogTimeout = 10 * time.Second

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 5000),
		},
		Catalog: CatalogConfig{
			BaseURL:        strings.TrimRight(getEnv("NEOWS_BASE_URL", "https://api.nasa.gov/neo/rest/v1"), "/"),
			APIKey:         strings.TrimSpace(os.Getenv("NASA_API_KEY")),
			FallbackAPIKey: strings.TrimSpace(os.Getenv("NEOWS_API_KEY")),
			Timeout:        getEnvDuration("NEOWS_TIMEOUT", 5*time.Second),
		},
		Cache: CacheConfig{
			Enabled: getEnvBool("CACHE_ENABLED", true),
			TTL:     getEnvDuration("CACHE_TTL", time.Hour),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		Prefetch: PrefetchConfig{
			Watchlist: getEnvList("NEO_WATCHLIST"),
			Interval:  getEnvDuration("NEO_REFRESH_INTERVAL", 6*time.Hour),
		},
		RateLimit: RateLimitConfig{
			RPS: getEnvInt("RATE_LIMIT_RPS", 5),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvListDefault("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/neo-cache.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnvCredential returns the first configured environment credential, or "".
func (c *Config) EnvCredential() string {
	if c.Catalog.APIKey != "" {
		return c.Catalog.APIKey
	}
	return c.Catalog.FallbackAPIKey
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("NEOWS_BASE_URL must not be empty")
	}
	if c.Catalog.Timeout <= 0 || c.Catalog.Timeout > maxCatalogTimeout {
		return fmt.Errorf("NEOWS_TIMEOUT must be between 0 and %s, got %s", maxCatalogTimeout, c.Catalog.Timeout)
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when the cache is enabled")
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1")
	}
	if c.Worker.BufferSize < 1 {
		return fmt.Errorf("WORKER_BUFFER_SIZE must be at least 1")
	}

	if c.Prefetch.Interval < time.Minute {
		return fmt.Errorf("NEO refresh interval must be at least 1 minute")
	}

	if c.RateLimit.RPS < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS must be at least 1")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	return getEnvListDefault(key, nil)
}

func getEnvListDefault(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
