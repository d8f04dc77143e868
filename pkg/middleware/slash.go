package middleware

import (
	"context"
	"net/http"
	"strings"
)

// TrimSlash redirects paths with a trailing slash to the unslashed form.
// The root path "/" is preserved.
func TrimSlash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := r.URL.Path
			if len(p) > 1 && strings.HasSuffix(p, "/") {
				redirect(w, r, strings.TrimRight(p, "/"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// redirect keeps the query string. Non-idempotent methods get 308 so the
// client replays the body.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	target = BasePath(r) + target
	if target == "" {
		target = "/"
	}
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	code := http.StatusMovedPermanently
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		code = http.StatusPermanentRedirect
	}
	http.Redirect(w, r, target, code)
}

type basePathKey struct{}

// WithBasePath records the mount prefix stripped from r so redirects issued
// below the mount point stay inside it.
func WithBasePath(r *http.Request, prefix string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), basePathKey{}, prefix))
}

// BasePath returns the prefix recorded by WithBasePath, or "".
func BasePath(r *http.Request) string {
	p, _ := r.Context().Value(basePathKey{}).(string)
	return p
}
