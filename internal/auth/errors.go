package auth

import "errors"

var (
	ErrInvalidToken       = errors.New("invalid session token")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)
