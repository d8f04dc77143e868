// Package routes declares route groups once and uses them both to register
// handlers on a ServeMux and to describe them in the OpenAPI document.
package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/philatopia/pkg/openapi"
)

// Route is one method + pattern pair. Pattern is relative to its group.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group represents a collection of routes under a common URL prefix.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Register mounts each group on mux and adds it to spec under basePath.
// Mux patterns omit basePath; the owning module strips it before dispatch.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
		if spec != nil {
			group.AddToSpec(basePath, spec)
		}
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	prefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, prefix, child)
	}
}

// AddToSpec describes the group's routes and schemas in spec. Operations
// without explicit tags inherit the group tags. Routes with no OpenAPI
// operation are left undocumented.
func (g Group) AddToSpec(basePath string, spec *openapi.Spec) {
	g.addToSpec(basePath, spec)
}

func (g Group) addToSpec(parentPrefix string, spec *openapi.Spec) {
	prefix := parentPrefix + g.Prefix

	if len(g.Schemas) > 0 {
		spec.Components.AddSchemas(g.Schemas)
	}

	for _, route := range g.Routes {
		if route.OpenAPI == nil {
			continue
		}
		op := route.OpenAPI
		if len(op.Tags) == 0 && len(g.Tags) > 0 {
			op.Tags = g.Tags
		}
		spec.AddOperation(specPath(prefix+route.Pattern), route.Method, op)
	}

	for _, child := range g.Children {
		child.addToSpec(prefix, spec)
	}
}

// specPath converts ServeMux wildcards to OpenAPI templates:
// "{key...}" becomes "{key}" and the "{$}" anchor is dropped.
func specPath(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "{$}", "")
	pattern = strings.ReplaceAll(pattern, "...}", "}")
	if pattern == "" {
		return "/"
	}
	return pattern
}
