// Package pagination provides fixed-size page requests and results.
package pagination

import (
	"fmt"
	"os"
	"strconv"
)

// Env maps environment variable names for pagination configuration.
type Env struct {
	PageSize string
}

// Config holds the deployment-wide page size.
type Config struct {
	PageSize int `toml:"page_size"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.PageSize != 0 {
		c.PageSize = overlay.PageSize
	}
}

func (c *Config) loadDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = 8
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.PageSize == "" {
		return
	}
	if v := os.Getenv(env.PageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}
}

func (c *Config) validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be positive")
	}
	return nil
}
