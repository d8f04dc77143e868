package module

import (
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/philatopia/pkg/middleware"
)

// Router dispatches on the first path segment to a mounted Module and falls
// back to a native ServeMux for everything else.
type Router struct {
	native     *http.ServeMux
	modules    map[string]*Module
	middleware middleware.System

	once  sync.Once
	built http.Handler
}

func NewRouter() *Router {
	return &Router{
		native:     http.NewServeMux(),
		modules:    make(map[string]*Module),
		middleware: middleware.New(),
	}
}

// HandleNative registers a ServeMux pattern outside any module.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers m under its prefix, replacing any module with the same prefix.
func (r *Router) Mount(m *Module) {
	r.modules[m.Prefix()] = m
}

// Use adds middleware that wraps every request, modules and native routes alike.
func (r *Router) Use(mw func(http.Handler) http.Handler) {
	r.middleware.Use(mw)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.once.Do(func() {
		r.built = r.middleware.Apply(http.HandlerFunc(r.dispatch))
	})
	r.built.ServeHTTP(w, req)
}

func (r *Router) dispatch(w http.ResponseWriter, req *http.Request) {
	if m, ok := r.modules[firstSegment(req.URL.Path)]; ok {
		m.Serve(w, req)
		return
	}
	r.native.ServeHTTP(w, req)
}

func firstSegment(path string) string {
	if path == "" || path == "/" {
		return ""
	}
	rest := path[1:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	return "/" + rest
}
