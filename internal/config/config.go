// Package config loads the process-wide application configuration.
//
// The Config struct is built exactly once, in main, and handed explicitly to
// everything that needs it (token service, stores, server). Nothing reads
// configuration from ambient global state after startup, so a test can
// construct any Config it wants without fighting package-level variables.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable the server has. Values come from config.yml
// when present, overridden by environment variables of the same name.
type Config struct {
	Port       int           `mapstructure:"PORT"`
	DBPath     string        `mapstructure:"DB_PATH"`
	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	TokenTTL   time.Duration `mapstructure:"TOKEN_TTL"`
	BcryptCost int           `mapstructure:"BCRYPT_COST"`
	Env        string        `mapstructure:"APP_ENV"`
}

// Load reads configuration from config.yml (searched in the working
// directory and one level up, so `go run ./cmd/server` works from the repo
// root) plus the environment. Missing file is fine; missing JWT_SECRET
// outside development is not.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	// The config file is optional; env vars and defaults cover everything.
	_ = v.ReadInConfig()

	v.SetDefault("PORT", 8080)
	v.SetDefault("DB_PATH", "data/devconnect.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("APP_ENV", "development")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %v", c.TokenTTL)
	}

	// A missing secret in development gets a loud but working fallback;
	// anywhere else it's a startup failure. Shipping with a default JWT
	// secret means anyone can mint valid tokens.
	if c.JWTSecret == "" {
		if c.Env != "development" {
			return fmt.Errorf("config: JWT_SECRET is required when APP_ENV=%q", c.Env)
		}
		c.JWTSecret = "dev-only-insecure-secret-change-me"
	}

	return nil
}

// IsDevelopment reports whether the process runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
