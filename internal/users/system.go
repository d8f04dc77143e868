// Package users registers collectors, signs them in and maintains their
// profiles.
package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/philatopia/pkg/middleware"
)

// System manages user accounts.
type System interface {
	Register(ctx context.Context, cmd RegisterCommand) (*User, error)

	// Login verifies credentials and issues a session token. Unknown emails
	// and wrong passwords both yield auth.ErrInvalidCredentials.
	Login(ctx context.Context, cmd LoginCommand) (*Session, error)

	Find(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, cmd ProfileCommand) (*User, error)

	// Handler builds the HTTP handler. limiter may be nil.
	Handler(maxUploadSize int64, limiter *middleware.RateLimiter) *Handler
}
