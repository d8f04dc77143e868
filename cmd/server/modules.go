package main

import (
	"net/http"

	"github.com/JaimeStill/philatopia/internal/api"
	"github.com/JaimeStill/philatopia/internal/config"
	"github.com/JaimeStill/philatopia/internal/infrastructure"
	"github.com/JaimeStill/philatopia/pkg/middleware"
	"github.com/JaimeStill/philatopia/pkg/module"
	"github.com/JaimeStill/philatopia/web/app"
)

const appPrefix = "/app"

// Modules holds every module mounted on the root router.
type Modules struct {
	API *api.Module
	App *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(
		appPrefix,
		apiModule.Domain.Stamps,
		cfg.API.Pagination,
		infra.Logger,
	)
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API: apiModule,
		App: appModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API.Module)
	router.Mount(m.App)
}

// buildRouter wires the probes, metrics and public image routes that live
// outside any module.
func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()
	router.Use(middleware.Recover(infra.Logger))
	router.Use(infra.Metrics.Instrument)

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	router.HandleNative("GET /metrics", infra.Metrics.Handler().ServeHTTP)

	images := infra.Images.Handler()
	router.HandleNative("GET "+cfg.Storage.PublicPrefix+"/{key...}", images.Serve)

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, appPrefix+"/", http.StatusFound)
	})

	return router
}
