package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.GeminiImageModel != "gemini-2.5-flash-image" {
		t.Fatalf("GeminiImageModel = %q", cfg.GeminiImageModel)
	}
	if cfg.RemoteConfigured() {
		t.Fatalf("RemoteConfigured = true without DATABASE_URL")
	}
	if cfg.GenerateDelay != 2*time.Second {
		t.Fatalf("GenerateDelay = %v, want 2s", cfg.GenerateDelay)
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}
}

func TestLoadConfigRemoteMode(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/azul")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "90")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.RemoteConfigured() {
		t.Fatalf("RemoteConfigured = false with DATABASE_URL set")
	}
	if cfg.RateLimitPerMin != 90 {
		t.Fatalf("RateLimitPerMin = %d, want 90", cfg.RateLimitPerMin)
	}
}
