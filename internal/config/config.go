// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the API process.
type Config struct {
	Port           string
	DatabaseURL    string
	AppEnv         string
	OTLPEndpoint   string
	RateLimitRPS   float64
	RateLimitBurst int
}

// IsProduction reports whether the process runs with production hardening
// (generic 500 bodies, no error echo).
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads settings from a .env file if present, then from the process
// environment. DATABASE_URL is the only mandatory setting.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	rps, err := floatEnv("RATE_LIMIT_RPS", 0)
	if err != nil {
		return nil, err
	}
	burst, err := intEnv("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           withDefault(os.Getenv("PORT"), "8080"),
		DatabaseURL:    dbURL,
		AppEnv:         withDefault(os.Getenv("APP_ENV"), "development"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}, nil
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return v, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}
