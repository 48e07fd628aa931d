// Package config reads application configuration from environment variables
// with sensible defaults for local deployment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zenstudy/backend/internal/auth"
)

// Config holds application configuration.
type Config struct {
	Port          string
	DatabasePath  string
	JWTSecret     string
	TokenDuration time.Duration
	StaticPath    string
}

// Load reads configuration from environment variables.
//
//	PORT            listen port (default 8080)
//	DB_PATH         sqlite database file (default ./data/zenstudy.db)
//	JWT_SECRET      token signing secret (default only suitable for dev)
//	TOKEN_DURATION  Go duration string (default 720h, i.e. 30 days)
//	STATIC_PATH     directory of frontend assets, empty to disable
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("DB_PATH", "./data/zenstudy.db"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenDuration: getDuration("TOKEN_DURATION", auth.DefaultTokenDuration),
		StaticPath:    getEnv("STATIC_PATH", ""),
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return d
}
