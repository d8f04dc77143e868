// Package web renders server-side views from embedded templates.
// Templates are parsed once at startup so a broken view fails the boot, not
// the request.
package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
)

// ViewDef ties a route to a view template.
type ViewDef struct {
	Route    string
	Template string
	Title    string
}

// ViewData is passed to every layout. BasePath lets templates build links
// that survive remounting with {{ .BasePath }}.
type ViewData struct {
	Title    string
	BasePath string
	Data     any
}

// TemplateSet holds one parsed template tree per view, each a clone of the
// shared layouts.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses the layouts matching layoutGlob, then clones them for
// every view found under viewSubdir.
func NewTemplateSet(layoutFS, viewFS fs.FS, layoutGlob, viewSubdir, basePath string, views []ViewDef) (*TemplateSet, error) {
	layouts, err := template.New("").Funcs(Funcs).ParseFS(layoutFS, layoutGlob)
	if err != nil {
		return nil, err
	}

	viewSub, err := fs.Sub(viewFS, viewSubdir)
	if err != nil {
		return nil, err
	}

	parsed := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewSub, v.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", v.Template, err)
		}
		parsed[v.Template] = t
	}

	return &TemplateSet{
		views:    parsed,
		basePath: basePath,
	}, nil
}

func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Render executes layout with data using the named view's template tree.
func (ts *TemplateSet) Render(w http.ResponseWriter, layout, view string, data ViewData) error {
	t, ok := ts.views[view]
	if !ok {
		return fmt.Errorf("template not found: %s", view)
	}
	if data.BasePath == "" {
		data.BasePath = ts.basePath
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, layout, data)
}

// ViewHandler renders a view with no data.
func (ts *TemplateSet) ViewHandler(layout string, view ViewDef) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ViewData{Title: view.Title}
		if err := ts.Render(w, layout, view.Template, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// ErrorHandler renders view with the given status code.
func (ts *TemplateSet) ErrorHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, ok := ts.views[view.Template]
		if !ok {
			http.Error(w, http.StatusText(status), status)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		t.ExecuteTemplate(w, layout, ViewData{Title: view.Title, BasePath: ts.basePath})
	}
}

// Funcs are available to every template.
var Funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"pages": func(total int) []int {
		out := make([]int, total)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
	"query": func(pairs ...any) template.URL {
		q := url.Values{}
		for i := 0; i+1 < len(pairs); i += 2 {
			k := fmt.Sprint(pairs[i])
			if v := fmt.Sprint(pairs[i+1]); v != "" {
				q.Set(k, v)
			}
		}
		return template.URL(q.Encode())
	},
}
