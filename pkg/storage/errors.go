package storage

import "errors"

// Storage errors returned by System implementations.
var (
	ErrNotFound         = errors.New("storage: key not found")
	ErrPermissionDenied = errors.New("storage: permission denied")
	// ErrInvalidKey covers empty keys and path traversal attempts.
	ErrInvalidKey = errors.New("storage: invalid key")
)
