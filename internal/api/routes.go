package api

import (
	"net/http"

	"github.com/JaimeStill/philatopia/internal/config"
	"github.com/JaimeStill/philatopia/pkg/openapi"
	"github.com/JaimeStill/philatopia/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	stampsHandler := domain.Stamps.Handler(runtime.MaxUploadSize)
	usersHandler := domain.Users.Handler(runtime.MaxUploadSize, runtime.RateLimiter)

	groups := append(stampsHandler.Routes(), usersHandler.Routes())
	routes.Register(mux, cfg.API.BasePath, spec, groups...)
}
