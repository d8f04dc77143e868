// Package module mounts self-contained HTTP handlers under single-segment
// prefixes ("/api", "/app") of a root Router.
package module

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/philatopia/pkg/middleware"
)

// Module is a handler plus its middleware, mounted at Prefix.
type Module struct {
	prefix     string
	handler    http.Handler
	middleware middleware.System

	once  sync.Once
	built http.Handler
}

// New creates a module. prefix must be a single path segment with a leading
// slash; anything else panics since it is a wiring error.
func New(prefix string, handler http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		handler:    handler,
		middleware: middleware.New(),
	}
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware. All Use calls must happen before the module serves.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Handler returns the handler wrapped in the module middleware.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.built = m.middleware.Apply(m.handler)
	})
	return m.built
}

// Serve strips the prefix from the request path and dispatches to Handler.
func (m *Module) Serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	r2 := middleware.WithBasePath(r, m.prefix)
	u := *r2.URL
	u.Path = path
	u.RawPath = ""
	r2.URL = &u

	m.Handler().ServeHTTP(w, r2)
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix required")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix %q must start with /", prefix)
	case len(prefix) == 1 || strings.Contains(prefix[1:], "/"):
		return fmt.Errorf("module prefix %q must be a single path segment", prefix)
	}
	return nil
}
