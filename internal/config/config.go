package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"procure-to-pay/internal/logger"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment after an
// optional .env file has been loaded.
type Config struct {
	// External REST backend.
	BackendURL     string
	BackendToken   string
	BackendTimeout time.Duration

	// HTTP adapter.
	ServerPort     string
	AllowedOrigins string
	JWTSecret      string

	// Optional Postgres store for the draft receipt index and audit log.
	DatabaseURL string

	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("BACKEND_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("BACKEND_TIMEOUT: %w", err)
	}
	if _, err := strconv.Atoi(getEnv("SERVER_PORT", "8080")); err != nil {
		return nil, fmt.Errorf("SERVER_PORT must be numeric: %w", err)
	}

	cfg := &Config{
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:5000/api"),
		BackendToken:   os.Getenv("BACKEND_TOKEN"),
		BackendTimeout: timeout,
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:  getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:      getEnv("LOG_OUTPUT", "stderr"),
	}
	return cfg, nil
}

// ValidateServer checks the settings the HTTP server cannot start without.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	return nil
}

// LoggerConfig maps the LOG_* settings onto the logger package.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
