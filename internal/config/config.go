// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrPageSizeInvalid is returned when PAGE_SIZE is out of range.
	ErrPageSizeInvalid = errors.New("config: PAGE_SIZE must be between 1 and 50")
	// ErrApplyRateInvalid is returned when the apply rate limit is not positive.
	ErrApplyRateInvalid = errors.New("config: APPLY_RATE_RPS and APPLY_RATE_BURST must be positive")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port           int      `env:"PORT, default=8080" json:"port"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=*" json:"allowed_origins"`

	// Storage settings. An empty DATABASE_URL selects the in-memory
	// repository; an empty REDIS_URL disables the listing cache and uses
	// the in-memory session store.
	DatabaseURL string `env:"DATABASE_URL" json:"-"` // Masked in JSON
	RedisURL    string `env:"REDIS_URL" json:"-"`    // Masked in JSON

	// Listing settings
	PageSize           int           `env:"PAGE_SIZE, default=6" json:"page_size"`
	FacetsFromFiltered bool          `env:"FACETS_FROM_FILTERED, default=false" json:"facets_from_filtered"`
	CacheTTL           time.Duration `env:"CACHE_TTL, default=30s" json:"cache_ttl"`

	// Session settings
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h" json:"session_ttl"`

	// Maintenance settings. A zero SWEEP_INTERVAL disables the expiry
	// sweeper.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL, default=1h" json:"sweep_interval"`

	// Apply endpoint rate limit
	ApplyRateRPS   float64 `env:"APPLY_RATE_RPS, default=5" json:"apply_rate_rps"`
	ApplyRateBurst int     `env:"APPLY_RATE_BURST, default=10" json:"apply_rate_burst"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > 50 {
		return ErrPageSizeInvalid
	}
	if c.ApplyRateRPS <= 0 || c.ApplyRateBurst <= 0 {
		return ErrApplyRateInvalid
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, PageSize: %d, FacetsFromFiltered: %t, CacheTTL: %s, SessionTTL: %s, SweepInterval: %s, ApplyRateRPS: %.1f, ApplyRateBurst: %d, LogFormat: %s, LogLevel: %s, Postgres: %t, Redis: %t}",
		c.Port,
		c.PageSize,
		c.FacetsFromFiltered,
		c.CacheTTL,
		c.SessionTTL,
		c.SweepInterval,
		c.ApplyRateRPS,
		c.ApplyRateBurst,
		c.LogFormat,
		c.LogLevel,
		c.DatabaseURL != "",
		c.RedisURL != "",
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
