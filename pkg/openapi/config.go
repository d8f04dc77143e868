package openapi

import (
	"errors"
	"os"
	"strings"
)

// Config describes the document's info block and the servers it advertises.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv names the environment variables that override Config.
// Servers is read as a comma separated list.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

func (c *Config) Finalize(env *ConfigEnv) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.Servers = cleanServers(c.Servers)
	if c.Title == "" {
		return errors.New("title required")
	}
	return nil
}

// Merge overlays non-zero fields. A non-empty server list replaces the base list.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if len(overlay.Servers) > 0 {
		c.Servers = overlay.Servers
	}
}

// NewSpec builds an empty document for version from the configured info
// and servers. fallback is advertised when no servers are configured.
func (c *Config) NewSpec(version, fallback string) *Spec {
	spec := NewSpec(c.Title, version)
	spec.SetDescription(c.Description)

	if len(c.Servers) == 0 {
		spec.AddServer(fallback)
	}
	for _, url := range c.Servers {
		spec.AddServer(url)
	}
	return spec
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if env.Title != "" {
		if v := os.Getenv(env.Title); v != "" {
			c.Title = v
		}
	}
	if env.Description != "" {
		if v := os.Getenv(env.Description); v != "" {
			c.Description = v
		}
	}
	if env.Servers != "" {
		if v := os.Getenv(env.Servers); v != "" {
			c.Servers = strings.Split(v, ",")
		}
	}
}

func cleanServers(servers []string) []string {
	out := make([]string, 0, len(servers))
	for _, s := range servers {
		s = strings.TrimRight(strings.TrimSpace(s), "/")
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
