package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/philatopia/pkg/repository"
	"github.com/JaimeStill/philatopia/pkg/storage"
)

type repo struct {
	db       *sql.DB
	store    storage.System
	naming   storage.Naming
	prefix   string
	logger   *slog.Logger
	recorder Recorder
}

// New creates the image system. Blobs are named by naming and exposed under
// publicPrefix (for example "/uploads").
func New(db *sql.DB, store storage.System, naming storage.Naming, publicPrefix string, logger *slog.Logger, recorder Recorder) System {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &repo{
		db:       db,
		store:    store,
		naming:   naming,
		prefix:   strings.TrimRight(publicPrefix, "/"),
		logger:   logger.With("system", "images"),
		recorder: recorder,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Save(ctx context.Context, tx *sql.Tx, up *Upload) (string, error) {
	if up == nil || len(up.Data) == 0 {
		return "", ErrMissingImage
	}

	key, err := r.naming.Key(up.Filename, up.Data)
	if err != nil {
		return "", ErrInvalidImage
	}
	path := r.path(key)

	if err := lockPath(ctx, tx, path); err != nil {
		return "", err
	}

	err = r.store.Store(ctx, key, up.Data)
	r.recorder.RecordBlob("store", err)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	r.logger.Info("image stored", "key", key, "size", len(up.Data))
	return path, nil
}

func (r *repo) Claim(ctx context.Context, tx *sql.Tx, path string) error {
	key, ok := r.Key(path)
	if !ok {
		return ErrNotFound
	}

	if err := lockPath(ctx, tx, path); err != nil {
		return err
	}

	exists, err := r.store.Validate(ctx, key)
	if err != nil {
		return fmt.Errorf("validate image: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

const referenceCount = `SELECT
	(SELECT COUNT(*) FROM public.stamps WHERE image = $1) +
	(SELECT COUNT(*) FROM public.users WHERE profile_image = $1)`

func (r *repo) Release(ctx context.Context, path string) error {
	key, ok := r.Key(path)
	if !ok {
		return nil
	}

	deleted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (bool, error) {
		if err := lockPath(ctx, tx, path); err != nil {
			return false, err
		}

		var refs int
		if err := tx.QueryRowContext(ctx, referenceCount, path).Scan(&refs); err != nil {
			return false, fmt.Errorf("count image references: %w", err)
		}
		if refs > 0 {
			r.logger.Debug("image still referenced", "key", key, "references", refs)
			return false, nil
		}

		err := r.store.Delete(ctx, key)
		r.recorder.RecordBlob("release", err)
		if err != nil {
			return false, fmt.Errorf("delete image: %w", err)
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	if deleted {
		r.logger.Info("image released", "key", key)
	}
	return nil
}

func (r *repo) Open(ctx context.Context, key string) ([]byte, error) {
	data, err := r.store.Retrieve(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (r *repo) Key(path string) (string, bool) {
	key, ok := strings.CutPrefix(path, r.prefix+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func (r *repo) path(key string) string {
	return r.prefix + "/" + key
}

const pathLock = `SELECT pg_advisory_xact_lock(hashtext($1))`

// lockPath holds a transaction-scoped lock on path until tx ends.
func lockPath(ctx context.Context, tx *sql.Tx, path string) error {
	if _, err := tx.ExecContext(ctx, pathLock, path); err != nil {
		return fmt.Errorf("lock image %s: %w", path, err)
	}
	return nil
}

type noopRecorder struct{}

func (noopRecorder) RecordBlob(string, error) {}
