// Package storage provides blob storage for uploaded images.
// A System is backed either by the local filesystem or by a MinIO/S3 bucket.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/philatopia/pkg/lifecycle"
)

// System defines blob storage operations keyed by slash-separated keys.
type System interface {
	// Store saves data at key, overwriting any existing blob.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the blob at key or ErrNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob at key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether key exists.
	Validate(ctx context.Context, key string) (bool, error)

	Start(lc *lifecycle.Coordinator) error
}

// New creates the System selected by cfg.Backend.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case BackendFilesystem, "":
		return NewFilesystem(cfg.BasePath, logger)
	case BackendMinio:
		return NewMinio(&cfg.Minio, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
