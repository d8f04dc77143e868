package stamps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/philatopia/internal/auth"
	"github.com/JaimeStill/philatopia/internal/images"
	"github.com/JaimeStill/philatopia/pkg/pagination"
	"github.com/JaimeStill/philatopia/pkg/query"
	"github.com/JaimeStill/philatopia/pkg/repository"
)

const foreignKeyViolation = "23503"

type repo struct {
	db         *sql.DB
	images     images.System
	logger     *slog.Logger
	pagination pagination.Config
	recorder   Recorder
}

// New creates the stamp repository.
func New(db *sql.DB, imgs images.System, logger *slog.Logger, pagination pagination.Config, recorder Recorder) System {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &repo{
		db:         db,
		images:     imgs,
		logger:     logger.With("system", "stamps"),
		pagination: pagination,
		recorder:   recorder,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) ListByOwner(ctx context.Context, owner string, page int) (*Listing, error) {
	ownerID, err := uuid.Parse(owner)
	if err != nil {
		return EmptyListing(), nil
	}

	req := pagination.NewPageRequest(page, r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("Owner", ownerID)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count stamps: %w", err)
	}

	totalPages := pagination.TotalPages(total, req.PageSize)
	if req.Page > totalPages {
		return &Listing{Stamps: []Stamp{}, TotalPages: totalPages}, nil
	}

	pageSQL, pageArgs := qb.BuildPage(req.Page, req.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanStamp)
	if err != nil {
		return nil, fmt.Errorf("query stamps: %w", err)
	}

	return &Listing{Stamps: items, TotalPages: totalPages}, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Stamp, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	st, err := repository.QueryOne(ctx, r.db, q, args, scanStamp)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &st, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (st *Stamp, err error) {
	defer func() { r.recorder.RecordMutation("create", err) }()

	owner, err := resolveOwner(ctx, cmd.Owner)
	if err != nil {
		return nil, err
	}

	draft := Stamp{
		Name:        cmd.Name,
		Description: cmd.Description,
		YearIssued:  cmd.YearIssued,
		Country:     cmd.Country,
		Owner:       owner,
	}
	if err := validate(draft); err != nil {
		return nil, err
	}
	if cmd.Image == nil {
		return nil, images.ErrMissingImage
	}

	q := `INSERT INTO public.stamps (id, owner, name, description, year_issued, country, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		` + returning

	var path string
	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Stamp, error) {
		saved, err := r.images.Save(ctx, tx, cmd.Image)
		if err != nil {
			return Stamp{}, err
		}
		path = saved

		return repository.QueryOne(ctx, tx, q, []any{
			uuid.New(), draft.Owner, draft.Name, draft.Description, draft.YearIssued, draft.Country, path,
		}, scanStamp)
	})

	if err != nil {
		r.release(ctx, path, "cleanup failed after db error")
		return nil, mapError(err)
	}

	r.logger.Info("stamp created", "id", created.ID, "owner", created.Owner, "image", created.Image)
	return &created, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (st *Stamp, err error) {
	defer func() { r.recorder.RecordMutation("update", err) }()

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, current); err != nil {
		return nil, err
	}

	next := cmd.Apply(*current)
	if err := validate(next); err != nil {
		return nil, err
	}

	if cmd.Image != nil && next.Image != "" && next.Image != current.Image {
		if _, ok := r.images.Key(next.Image); !ok {
			return nil, ErrInvalidImagePath
		}
	}

	q := `UPDATE public.stamps
		SET name = $1, description = $2, year_issued = $3, country = $4, image = $5
		WHERE id = $6
		` + returning

	var saved string
	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Stamp, error) {
		switch {
		case cmd.Upload != nil:
			path, err := r.images.Save(ctx, tx, cmd.Upload)
			if err != nil {
				return Stamp{}, err
			}
			saved = path
			next.Image = path
		case next.Image != "" && next.Image != current.Image:
			if err := r.images.Claim(ctx, tx, next.Image); err != nil {
				if errors.Is(err, images.ErrNotFound) {
					return Stamp{}, ErrInvalidImagePath
				}
				return Stamp{}, err
			}
		}

		return repository.QueryOne(ctx, tx, q, []any{
			next.Name, next.Description, next.YearIssued, next.Country, next.Image, id,
		}, scanStamp)
	})

	if err != nil {
		if saved != "" && saved != current.Image {
			r.release(ctx, saved, "cleanup failed after db error")
		}
		return nil, mapError(err)
	}

	if updated.Image != current.Image {
		r.release(ctx, current.Image, "release of replaced image failed")
	}

	r.logger.Info("stamp updated", "id", updated.ID, "image", updated.Image)
	return &updated, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) (err error) {
	defer func() { r.recorder.RecordMutation("delete", err) }()

	current, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(ctx, current); err != nil {
		return err
	}

	q := `DELETE FROM public.stamps WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})

	if err != nil {
		return mapError(err)
	}

	r.release(ctx, current.Image, "image release failed")

	r.logger.Info("stamp deleted", "id", id)
	return nil
}

// release logs instead of failing: the record change has already committed.
func (r *repo) release(ctx context.Context, path, msg string) {
	if path == "" {
		return
	}
	if err := r.images.Release(ctx, path); err != nil {
		r.logger.Error(msg, "image", path, "error", err)
	}
}

func resolveOwner(ctx context.Context, requested uuid.UUID) (uuid.UUID, error) {
	session, ok := auth.UserFrom(ctx)
	if !ok {
		if requested == uuid.Nil {
			return uuid.Nil, ErrMissingOwner
		}
		return requested, nil
	}

	sessionID, err := uuid.Parse(session)
	if err != nil {
		return uuid.Nil, ErrInvalidOwner
	}
	if requested != uuid.Nil && requested != sessionID {
		return uuid.Nil, ErrForbidden
	}
	return sessionID, nil
}

func authorize(ctx context.Context, st *Stamp) error {
	session, ok := auth.UserFrom(ctx)
	if ok && session != st.Owner.String() {
		return ErrForbidden
	}
	return nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return ErrInvalidOwner
	}
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

type noopRecorder struct{}

func (noopRecorder) RecordMutation(string, error) {}
