package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v, want 1h", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("Env = %q, want development default", cfg.Env)
	}
	// Development falls back to an insecure-but-working secret so the
	// server boots without a config file.
	if cfg.JWTSecret == "" {
		t.Error("JWTSecret should have a development fallback")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("JWT_SECRET", "a-perfectly-long-test-secret!!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Port)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.TokenTTL)
	}
	if cfg.JWTSecret != "a-perfectly-long-test-secret!!!!" {
		t.Errorf("JWTSecret not taken from environment")
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail when APP_ENV=production and JWT_SECRET is empty")
	}
}

func TestLoad_RejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a negative port")
	}
}
