package collection

import (
	"errors"
	"fmt"
)

var (
	// ErrStale reports a page response superseded by a later request.
	ErrStale             = errors.New("stale page response")
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrInvalidMode       = errors.New("mode must be grid or list")
)

// APIError is a failure reported by the collection API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("collection api: %d: %s", e.Status, e.Message)
}
