// Package images validates uploaded images, stores them as blobs, maps blob
// keys to public paths, and removes blobs once no record references them.
package images

import (
	"errors"
	"net/http"
)

var (
	ErrMissingImage = errors.New("an image file is required")
	ErrInvalidImage = errors.New("file is not a supported image (jpeg, png, gif, webp)")
	ErrTooLarge     = errors.New("file exceeds maximum upload size")
	ErrNotFound     = errors.New("image not found")
)

// MapHTTPStatus maps image errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingImage), errors.Is(err, ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
