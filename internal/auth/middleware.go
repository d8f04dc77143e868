package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/philatopia/pkg/handlers"
)

// Authenticate resolves an Authorization bearer token into the request user.
// Requests without a token pass through anonymously; a token that fails
// verification is rejected with 401.
func Authenticate(tokens *Tokens, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := tokens.Verify(raw)
			if err != nil {
				handlers.RespondFailure(w, logger, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
		})
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFrom(r.Context()); !ok {
			handlers.RespondFailure(w, logger, http.StatusUnauthorized, ErrUnauthenticated)
			return
		}
		next(w, r)
	}
}

func bearer(r *http.Request) (string, bool) {
	const prefix = "Bearer "

	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(prefix):])
	return token, token != ""
}
