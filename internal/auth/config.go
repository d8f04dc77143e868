package auth

import (
	"fmt"
	"os"
	"time"
)

// Env maps environment variable names for session configuration.
type Env struct {
	TokenSecret string
	TokenTTL    string
}

// Config holds session token settings.
type Config struct {
	TokenSecret string `toml:"token_secret"`
	TokenTTL    string `toml:"token_ttl"`
}

// TokenTTLDuration parses and returns the token lifetime.
func (c *Config) TokenTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

func (c *Config) Merge(overlay *Config) {
	if overlay.TokenSecret != "" {
		c.TokenSecret = overlay.TokenSecret
	}
	if overlay.TokenTTL != "" {
		c.TokenTTL = overlay.TokenTTL
	}
}

func (c *Config) loadDefaults() {
	if c.TokenTTL == "" {
		c.TokenTTL = "24h"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.TokenSecret); v != "" {
		c.TokenSecret = v
	}
	if v := os.Getenv(env.TokenTTL); v != "" {
		c.TokenTTL = v
	}
}

func (c *Config) validate() error {
	if len(c.TokenSecret) < 16 {
		return fmt.Errorf("token_secret must be at least 16 characters")
	}
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return fmt.Errorf("invalid token_ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	return nil
}
