package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Recommend RecommendConfig `yaml:"recommend"`
	Storage   StorageConfig   `yaml:"storage"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Valkey    ValkeyConfig    `yaml:"valkey"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AnalysisConfig tunes the simulated model and the assembled result.
type AnalysisConfig struct {
	MinLatency         time.Duration `yaml:"minLatency"`
	MaxLatency         time.Duration `yaml:"maxLatency"`
	WarmupDelay        time.Duration `yaml:"warmupDelay"`
	MaxConcerns        int           `yaml:"maxConcerns"`
	MaxRecommendations int           `yaml:"maxRecommendations"`
	HistoryLimit       int           `yaml:"historyLimit"`
	JobTimeout         time.Duration `yaml:"jobTimeout"`
	JobTTL             time.Duration `yaml:"jobTtl"`
	Breaker            BreakerConfig `yaml:"breaker"`
}

// BreakerConfig controls the circuit breaker around metric extraction.
type BreakerConfig struct {
	MaxRequests  uint32        `yaml:"maxRequests"`
	Interval     time.Duration `yaml:"interval"`
	Timeout      time.Duration `yaml:"timeout"`
	MinRequests  uint32        `yaml:"minRequests"`
	FailureRatio float64       `yaml:"failureRatio"`
}

// RecommendConfig controls catalog loading and ranking defaults.
type RecommendConfig struct {
	DefaultLimit int           `yaml:"defaultLimit"`
	CacheTTL     time.Duration `yaml:"cacheTtl"`
	CatalogPath  string        `yaml:"catalogPath"`
}

// StorageConfig locates selfie blob storage.
type StorageConfig struct {
	R2            R2Config `yaml:"r2"`
	MaxImageBytes int64    `yaml:"maxImageBytes"`
}

// R2Config contains S3-compatible credentials.
type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for cache and queue.
type ValkeyConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	QueueKey string `yaml:"queueKey"`
	Prefix   string `yaml:"prefix"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString("HTTP_ADDRESS", &cfg.HTTP.Address)
	setBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	setInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	setInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)
	setBool("HTTP_RETRY_ENABLED", &cfg.HTTP.Retry.Enabled)
	setInt("HTTP_RETRY_MAX_ATTEMPTS", &cfg.HTTP.Retry.MaxAttempts)
	setDuration("HTTP_RETRY_BASE_BACKOFF", &cfg.HTTP.Retry.BaseBackoff)
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}

	setDuration("ANALYSIS_MIN_LATENCY", &cfg.Analysis.MinLatency)
	setDuration("ANALYSIS_MAX_LATENCY", &cfg.Analysis.MaxLatency)
	setDuration("ANALYSIS_WARMUP_DELAY", &cfg.Analysis.WarmupDelay)
	setInt("ANALYSIS_HISTORY_LIMIT", &cfg.Analysis.HistoryLimit)

	setInt("RECOMMEND_DEFAULT_LIMIT", &cfg.Recommend.DefaultLimit)
	setDuration("RECOMMEND_CACHE_TTL", &cfg.Recommend.CacheTTL)
	setString("RECOMMEND_CATALOG_PATH", &cfg.Recommend.CatalogPath)

	setString("R2_ENDPOINT", &cfg.Storage.R2.Endpoint)
	setString("R2_ACCESS_KEY", &cfg.Storage.R2.AccessKey)
	setString("R2_SECRET_KEY", &cfg.Storage.R2.SecretKey)
	setString("R2_BUCKET", &cfg.Storage.R2.Bucket)
	setString("R2_REGION", &cfg.Storage.R2.Region)

	setString("POSTGRES_DSN", &cfg.Postgres.DSN)
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}

	setBool("VALKEY_ENABLED", &cfg.Valkey.Enabled)
	setString("VALKEY_ADDR", &cfg.Valkey.Addr)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/analyses",
					"/api/v1/analyses/jobs",
					"/api/v1/profiles",
				},
			},
		},
		Analysis: AnalysisConfig{
			MinLatency:         1500 * time.Millisecond,
			MaxLatency:         2500 * time.Millisecond,
			WarmupDelay:        800 * time.Millisecond,
			MaxConcerns:        6,
			MaxRecommendations: 5,
			HistoryLimit:       50,
			JobTimeout:         30 * time.Second,
			JobTTL:             24 * time.Hour,
			Breaker: BreakerConfig{
				MaxRequests:  2,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				MinRequests:  5,
				FailureRatio: 0.6,
			},
		},
		Recommend: RecommendConfig{
			DefaultLimit: 10,
			CacheTTL:     10 * time.Minute,
		},
		Storage: StorageConfig{
			R2: R2Config{
				Region: "auto",
			},
			MaxImageBytes: 8 << 20,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 0,
		},
		Valkey: ValkeyConfig{
			QueueKey: "glow:analysis:jobs",
			Prefix:   "glow",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if c.Analysis.MinLatency < 0 || c.Analysis.MaxLatency < c.Analysis.MinLatency {
		return errors.New("analysis latency bounds must satisfy 0 <= minLatency <= maxLatency")
	}
	if c.Analysis.MaxConcerns <= 0 {
		return errors.New("analysis.maxConcerns must be positive")
	}
	if c.Analysis.MaxRecommendations < 4 {
		return errors.New("analysis.maxRecommendations must be at least 4")
	}
	if c.Analysis.HistoryLimit <= 0 {
		return errors.New("analysis.historyLimit must be positive")
	}
	if c.Analysis.Breaker.FailureRatio < 0 || c.Analysis.Breaker.FailureRatio > 1 {
		return errors.New("analysis.breaker.failureRatio must be within [0,1]")
	}
	if c.Recommend.DefaultLimit <= 0 {
		return errors.New("recommend.defaultLimit must be positive")
	}
	if c.Recommend.CacheTTL < 0 {
		return errors.New("recommend.cacheTtl cannot be negative")
	}
	if c.Storage.MaxImageBytes <= 0 {
		return errors.New("storage.maxImageBytes must be positive")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	return nil
}
