package stamps

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/philatopia/internal/images"
)

var (
	ErrNotFound           = errors.New("stamp not found")
	ErrDuplicate          = errors.New("stamp already exists")
	ErrInvalidName        = errors.New("name is required")
	ErrInvalidYear        = errors.New("yearIssued must be an integer")
	ErrDescriptionTooLong = errors.New("description exceeds 125 characters")
	ErrMissingOwner       = errors.New("owner is required")
	ErrInvalidOwner       = errors.New("owner does not exist")
	ErrInvalidImagePath   = errors.New("image path is not a stored upload")
	ErrForbidden          = errors.New("stamp belongs to another user")
)

// MapHTTPStatus maps stamp and image errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidYear),
		errors.Is(err, ErrDescriptionTooLong),
		errors.Is(err, ErrMissingOwner),
		errors.Is(err, ErrInvalidOwner),
		errors.Is(err, ErrInvalidImagePath),
		errors.Is(err, errMalformedForm):
		return http.StatusBadRequest
	default:
		return images.MapHTTPStatus(err)
	}
}
