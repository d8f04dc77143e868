// Package stamps owns stamp records: the paged per-owner listing and the
// create, update and delete mutations with their image bookkeeping.
package stamps

import (
	"context"

	"github.com/google/uuid"
)

// Recorder receives mutation outcomes.
type Recorder interface {
	RecordMutation(operation string, err error)
}

// System manages stamp persistence.
//
// When ctx carries a session user (auth.WithUser), Create defaults the owner
// to that user and Update and Delete reject stamps owned by anyone else.
type System interface {
	// ListByOwner returns page (1-indexed) of owner's stamps in insertion
	// order. An empty or unparsable owner yields an empty listing.
	ListByOwner(ctx context.Context, owner string, page int) (*Listing, error)

	Find(ctx context.Context, id uuid.UUID) (*Stamp, error)
	Create(ctx context.Context, cmd CreateCommand) (*Stamp, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Stamp, error)
	Delete(ctx context.Context, id uuid.UUID) error

	Handler(maxUploadSize int64) *Handler
}
