package users

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/philatopia/internal/auth"
	"github.com/JaimeStill/philatopia/internal/images"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrDuplicate    = errors.New("email is already registered")
	ErrInvalidEmail = errors.New("a valid email address is required")
	ErrInvalidName  = errors.New("name is required")
)

// MapHTTPStatus maps user, auth and image errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidName),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return images.MapHTTPStatus(err)
	}
}
