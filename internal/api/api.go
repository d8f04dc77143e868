// Package api assembles the JSON API module: stamp collections, user
// accounts and the generated OpenAPI document.
package api

import (
	"net/http"

	"github.com/JaimeStill/philatopia/internal/auth"
	"github.com/JaimeStill/philatopia/internal/config"
	"github.com/JaimeStill/philatopia/internal/infrastructure"
	"github.com/JaimeStill/philatopia/pkg/middleware"
	"github.com/JaimeStill/philatopia/pkg/module"
	"github.com/JaimeStill/philatopia/pkg/openapi"
)

// Module is the mounted API together with its OpenAPI document and the
// domain systems other modules render from.
type Module struct {
	*module.Module
	Spec   *openapi.Spec
	Domain *Domain
}

// NewModule builds the API module mounted at cfg.API.BasePath.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	spec := cfg.API.OpenAPI.NewSpec(cfg.Version, cfg.Domain)

	mux := http.NewServeMux()
	registerRoutes(mux, spec, runtime, domain, cfg)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.TrimSlash())
	m.Use(middleware.RequestID())
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(auth.Authenticate(runtime.Tokens, runtime.Logger))

	return &Module{Module: m, Spec: spec, Domain: domain}, nil
}
