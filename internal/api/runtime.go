package api

import (
	"time"

	"github.com/JaimeStill/philatopia/internal/config"
	"github.com/JaimeStill/philatopia/internal/infrastructure"
	"github.com/JaimeStill/philatopia/pkg/middleware"
	"github.com/JaimeStill/philatopia/pkg/pagination"
)

const limiterSweepInterval = time.Minute

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	RateLimiter   *middleware.RateLimiter
	MaxUploadSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger. The rate
// limiter sweeps idle clients until the lifecycle shuts down.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	var limiter *middleware.RateLimiter
	if cfg.API.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(&cfg.API.RateLimit, scoped.Logger)
		limiter.Start(infra.Lifecycle, limiterSweepInterval)
	}

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		RateLimiter:    limiter,
		MaxUploadSize:  cfg.Storage.MaxUploadSizeBytes(),
	}
}
