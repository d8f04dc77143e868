package images

import (
	"context"
	"database/sql"
)

// Recorder receives blob operation outcomes.
type Recorder interface {
	RecordBlob(operation string, err error)
}

// System stores image blobs and tracks their public paths.
//
// Writers and Release serialize on a per-path advisory lock, so a blob is
// never deleted between being written and being referenced by a row.
type System interface {
	// Save locks the upload's path for the rest of tx, stores the blob and
	// returns the path. Reference it from a row in the same tx.
	Save(ctx context.Context, tx *sql.Tx, up *Upload) (string, error)

	// Claim locks an existing path for the rest of tx. It fails with
	// ErrNotFound when the blob is gone.
	Claim(ctx context.Context, tx *sql.Tx, path string) error

	// Release deletes the blob behind path when no stamp or profile refers to
	// it. Call it after the referencing row has been changed or removed.
	Release(ctx context.Context, path string) error

	// Open returns the blob bytes for a storage key.
	Open(ctx context.Context, key string) ([]byte, error)

	// Key converts a public path into its storage key.
	Key(path string) (string, bool)

	Handler() *Handler
}
