package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/philatopia/pkg/middleware"
	"github.com/JaimeStill/philatopia/pkg/openapi"
	"github.com/JaimeStill/philatopia/pkg/pagination"
)

// APIConfig configures the JSON API module.
type APIConfig struct {
	BasePath   string                     `toml:"base_path"`
	CORS       middleware.CORSConfig      `toml:"cors"`
	Pagination pagination.Config          `toml:"pagination"`
	OpenAPI    openapi.Config             `toml:"openapi"`
	RateLimit  middleware.RateLimitConfig `toml:"rate_limit"`
}

func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	if err := c.RateLimit.Finalize(rateLimitEnv); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}
	return nil
}

func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
	c.RateLimit.Merge(&overlay.RateLimit)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.OpenAPI.Title == "" {
		c.OpenAPI.Title = "Philatopia API"
	}
	if c.OpenAPI.Description == "" {
		c.OpenAPI.Description = "Catalog, browse and curate personal stamp collections."
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 || len(c.BasePath) < 2 {
		return fmt.Errorf("base_path %q must be a single path segment such as /api", c.BasePath)
	}
	return nil
}
