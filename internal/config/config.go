package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pocketspese/internal/ids"
)

type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Expenses
	IDStrategy     string
	CurrencySymbol string

	// Dashboard cache
	DashboardCacheSize   int
	DashboardCacheTTL    time.Duration
	CacheCleanupInterval time.Duration

	// Metrics
	MetricsEnabled bool
}

func Load() *Config {
	return &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		IDStrategy:     getEnv("ID_STRATEGY", ids.ClockStrategy.String()),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "$"),

		DashboardCacheSize:   getEnvInt("DASHBOARD_CACHE_SIZE", 32),
		DashboardCacheTTL:    getEnvDuration("DASHBOARD_CACHE_TTL", 5*time.Minute),
		CacheCleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if !ids.Strategy(c.IDStrategy).IsValid() {
		errors = append(errors, fmt.Sprintf("invalid id strategy '%s': must be one of %v", c.IDStrategy, ids.Strategies()))
	}

	if len([]rune(c.CurrencySymbol)) > 4 {
		errors = append(errors, fmt.Sprintf("invalid currency symbol '%s': at most 4 characters", c.CurrencySymbol))
	}

	if c.DashboardCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid dashboard cache size %d: must be at least 1", c.DashboardCacheSize))
	} else if c.DashboardCacheSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid dashboard cache size %d: must be at most 1000", c.DashboardCacheSize))
	}

	if c.DashboardCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid dashboard cache ttl %v: must be at least 1 second", c.DashboardCacheTTL))
	}

	if c.CacheCleanupInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache cleanup interval %v: must be at least 1 second", c.CacheCleanupInterval))
	} else if c.CacheCleanupInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache cleanup interval %v: must be at most 24 hours", c.CacheCleanupInterval))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
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
