package web

import (
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/JaimeStill/philatopia/pkg/routes"
)

// ServeEmbeddedFile serves a fixed byte slice.
func ServeEmbeddedFile(data []byte, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}

// PublicFile serves dir/name from fsys, or 404 when it is missing.
func PublicFile(fsys fs.FS, dir, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		ct := mime.TypeByExtension(path.Ext(name))
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		ServeEmbeddedFile(data, ct)(w, r)
	}
}

// PublicFileRoutes builds one GET route per file, served at "/<name>".
func PublicFileRoutes(fsys fs.FS, dir string, names ...string) []routes.Route {
	out := make([]routes.Route, 0, len(names))
	for _, name := range names {
		out = append(out, routes.Route{
			Method:  http.MethodGet,
			Pattern: "/" + name,
			Handler: PublicFile(fsys, dir, name),
		})
	}
	return out
}
