package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/zenstudy/backend/internal/auth"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Load()
		if cfg.Port != "8080" {
			t.Errorf("Port = %q, want 8080", cfg.Port)
		}
		if cfg.TokenDuration != auth.DefaultTokenDuration {
			t.Errorf("TokenDuration = %v, want %v", cfg.TokenDuration, auth.DefaultTokenDuration)
		}
		if cfg.Addr() != ":8080" {
			t.Errorf("Addr() = %q, want :8080", cfg.Addr())
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("TOKEN_DURATION", "24h")

		cfg := Load()
		if cfg.Port != "9090" {
			t.Errorf("Port = %q, want 9090", cfg.Port)
		}
		if cfg.TokenDuration != 24*time.Hour {
			t.Errorf("TokenDuration = %v, want 24h", cfg.TokenDuration)
		}
	})

	t.Run("malformed duration falls back and warns", func(t *testing.T) {
		t.Setenv("TOKEN_DURATION", "thirty-days")

		var buf bytes.Buffer
		prev := slog.Default()
		slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
		defer slog.SetDefault(prev)

		cfg := Load()
		if cfg.TokenDuration != auth.DefaultTokenDuration {
			t.Errorf("TokenDuration = %v, want default %v", cfg.TokenDuration, auth.DefaultTokenDuration)
		}
		if !strings.Contains(buf.String(), "TOKEN_DURATION") {
			t.Errorf("expected a warning naming TOKEN_DURATION, log output: %q", buf.String())
		}
	})
}
