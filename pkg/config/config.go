// Package config loads nextup configuration from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Storage. SQLitePath is used in local mode; DatabaseURL switches to
	// Postgres when set.
	SQLitePath  string
	DatabaseURL string

	// Redis (optional shared result cache)
	RedisURL string

	// RabbitMQ (optional event publisher in server mode)
	RabbitMQURL string

	// Weight profile file (YAML). Empty means built-in defaults.
	WeightsPath string

	// Engine tuning
	DecayRate              float64
	MinPriorityThreshold   float64
	UrgencyHorizonDays     int
	DeadlineOverrideWindow time.Duration
	RecommendTimeout       time.Duration
	DefaultTopN            int

	// Result cache
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("NEXTUP_LOG_LEVEL", "info"),
		UserID:   getEnv("NEXTUP_USER_ID", "00000000-0000-0000-0000-000000000001"),

		SQLitePath:  getEnv("NEXTUP_SQLITE_PATH", defaultSQLitePath()),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		WeightsPath: getEnv("NEXTUP_WEIGHTS_PATH", ""),

		DecayRate:              getFloatEnv("NEXTUP_DECAY_RATE", 0.05),
		MinPriorityThreshold:   getFloatEnv("NEXTUP_MIN_PRIORITY", 10),
		UrgencyHorizonDays:     getIntEnv("NEXTUP_URGENCY_HORIZON_DAYS", 14),
		DeadlineOverrideWindow: getDurationEnv("NEXTUP_DEADLINE_OVERRIDE_WINDOW", 48*time.Hour),
		RecommendTimeout:       getDurationEnv("NEXTUP_RECOMMEND_TIMEOUT", 5*time.Second),
		DefaultTopN:            getIntEnv("NEXTUP_TOP_N", 5),

		CacheEnabled: getBoolEnv("NEXTUP_CACHE_ENABLED", true),
		CacheTTL:     getDurationEnv("NEXTUP_CACHE_TTL", 5*time.Minute),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UseLocalStorage reports whether the local SQLite store should be used.
func (c *Config) UseLocalStorage() bool {
	return c.DatabaseURL == ""
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nextup/nextup.db"
	}
	return filepath.Join(home, ".nextup", "nextup.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
