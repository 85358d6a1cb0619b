package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
		TimeZone    string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}
	NEO struct {
		APIKey        string
		FeedURL       string
		Timeout       time.Duration
		RetryAttempts int
		RetryDelay    time.Duration
		WindowDays    int
	}
	Workers struct {
		IngestEnabled  bool
		IngestInterval time.Duration
		RunRetention   time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
	Export struct {
		OutputDir string
	}
	Log struct {
		Level  string
		Pretty bool
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "8080")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")
	cfg.App.TimeZone = getEnv("TIME_ZONE", "UTC")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "neowatch")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// NASA NeoWs
	cfg.NEO.APIKey = getEnv("NASA_API_KEY", "")
	cfg.NEO.FeedURL = getEnv("NASA_NEO_URL", "https://api.nasa.gov/neo/rest/v1/feed")
	cfg.NEO.Timeout = getEnvAsDuration("NASA_NEO_TIMEOUT", 10*time.Second)
	cfg.NEO.RetryAttempts = getEnvAsInt("NASA_NEO_RETRY_ATTEMPTS", 2)
	cfg.NEO.RetryDelay = getEnvAsDuration("NASA_NEO_RETRY_DELAY", 500*time.Millisecond)
	cfg.NEO.WindowDays = getEnvAsInt("NASA_NEO_WINDOW_DAYS", 7)

	// Workers
	cfg.Workers.IngestEnabled = getEnvAsBool("INGEST_ENABLED", true)
	cfg.Workers.IngestInterval = getEnvAsDuration("WORKER_INGEST_INTERVAL", 6*time.Hour)
	cfg.Workers.RunRetention = getEnvAsDuration("INGEST_RUN_RETENTION", 30*24*time.Hour)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	cfg.Export.OutputDir = getEnv("EXPORT_OUTPUT_DIR", "./data/export")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Pretty = getEnvAsBool("LOG_PRETTY", false)

	return cfg
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.App.TimeZone); err != nil {
		return fmt.Errorf("invalid TIME_ZONE %q: %w", c.App.TimeZone, err)
	}
	if c.NEO.WindowDays < 1 {
		return fmt.Errorf("NASA_NEO_WINDOW_DAYS must be positive, got %d", c.NEO.WindowDays)
	}
	if c.NEO.Timeout <= 0 {
		return fmt.Errorf("NASA_NEO_TIMEOUT must be positive, got %v", c.NEO.Timeout)
	}
	if c.NEO.RetryAttempts < 1 {
		return fmt.Errorf("NASA_NEO_RETRY_ATTEMPTS must be at least 1, got %d", c.NEO.RetryAttempts)
	}
	return nil
}

// Location returns the configured timezone. Call Validate first.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
