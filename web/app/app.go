// Package app serves the server-rendered collection pages.
package app

import (
	"context"
	"embed"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/philatopia/internal/collection"
	"github.com/JaimeStill/philatopia/internal/stamps"
	"github.com/JaimeStill/philatopia/pkg/module"
	"github.com/JaimeStill/philatopia/pkg/pagination"
	"github.com/JaimeStill/philatopia/pkg/web"
)

//go:embed public/*
var publicFS embed.FS

//go:embed server/layouts/*
var layoutFS embed.FS

//go:embed server/views/*
var viewFS embed.FS

const layout = "app.html"

var publicFiles = []string{
	"app.css",
}

var (
	homeView       = web.ViewDef{Route: "/{$}", Template: "home.html", Title: "Philatopia"}
	collectionView = web.ViewDef{Route: "/collection", Template: "collection.html", Title: "Collection"}
	notFoundView   = web.ViewDef{Template: "404.html", Title: "Not Found"}
)

// Lister reads one page of an owner's stamps.
type Lister interface {
	ListByOwner(ctx context.Context, owner string, page int) (*stamps.Listing, error)
}

// CollectionPage is the data behind collection.html.
type CollectionPage struct {
	Owner      string
	Page       int
	TotalPages int
	View       collection.ViewModel
}

// HasPrev reports whether a previous page link applies.
func (p CollectionPage) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page link applies.
func (p CollectionPage) HasNext() bool { return p.Page < p.TotalPages }

// NewModule creates the app module mounted at basePath.
func NewModule(basePath string, lister Lister, pageCfg pagination.Config, logger *slog.Logger) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		layoutFS,
		viewFS,
		"server/layouts/*.html",
		"server/views",
		basePath,
		[]web.ViewDef{homeView, collectionView, notFoundView},
	)
	if err != nil {
		return nil, err
	}

	h := &handler{
		ts:         ts,
		lister:     lister,
		pagination: pageCfg,
		logger:     logger.With("module", "app"),
	}

	return module.New(basePath, h.router()), nil
}

type handler struct {
	ts         *web.TemplateSet
	lister     Lister
	pagination pagination.Config
	logger     *slog.Logger
}

func (h *handler) router() http.Handler {
	r := web.NewRouter()
	r.SetFallback(h.ts.ErrorHandler(layout, notFoundView, http.StatusNotFound))

	r.HandleFunc("GET "+homeView.Route, h.ts.ViewHandler(layout, homeView))
	r.HandleFunc("GET "+collectionView.Route, h.collection)

	for _, route := range web.PublicFileRoutes(publicFS, "public", publicFiles...) {
		r.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
	}

	return r
}

func (h *handler) collection(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	owner := strings.TrimSpace(values.Get("userId"))
	req := pagination.PageRequestFromQuery(values, h.pagination)

	listing, err := h.lister.ListByOwner(r.Context(), owner, req.Page)
	if err != nil {
		h.logger.Error("collection page failed", "owner", owner, "error", err)
		http.Error(w, "collection unavailable", http.StatusInternalServerError)
		return
	}

	data := CollectionPage{
		Owner:      owner,
		Page:       req.Page,
		TotalPages: listing.TotalPages,
		View:       collection.Render(listing.Stamps, values.Get("q"), collection.ParseMode(values.Get("view"))),
	}

	if err := h.ts.Render(w, layout, collectionView.Template, web.ViewData{Title: collectionView.Title, Data: data}); err != nil {
		h.logger.Error("render failed", "view", collectionView.Template, "error", err)
	}
}
