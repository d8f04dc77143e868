package api

import (
	"github.com/JaimeStill/philatopia/internal/stamps"
	"github.com/JaimeStill/philatopia/internal/users"
)

// Domain holds the domain systems behind the API.
type Domain struct {
	Stamps stamps.System
	Users  users.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Stamps: stamps.New(
			runtime.Database.Connection(),
			runtime.Images,
			runtime.Logger,
			runtime.Pagination,
			runtime.Metrics,
		),
		Users: users.New(
			runtime.Database.Connection(),
			runtime.Images,
			runtime.Tokens,
			runtime.Logger,
		),
	}
}
