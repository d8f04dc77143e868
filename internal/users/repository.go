package users

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/philatopia/internal/auth"
	"github.com/JaimeStill/philatopia/internal/images"
	"github.com/JaimeStill/philatopia/pkg/middleware"
	"github.com/JaimeStill/philatopia/pkg/query"
	"github.com/JaimeStill/philatopia/pkg/repository"
)

type repo struct {
	db     *sql.DB
	images images.System
	tokens *auth.Tokens
	logger *slog.Logger
}

func New(db *sql.DB, imgs images.System, tokens *auth.Tokens, logger *slog.Logger) System {
	return &repo{
		db:     db,
		images: imgs,
		tokens: tokens,
		logger: logger.With("system", "users"),
	}
}

func (r *repo) Handler(maxUploadSize int64, limiter *middleware.RateLimiter) *Handler {
	return NewHandler(r, r.logger, maxUploadSize, limiter)
}

func (r *repo) Register(ctx context.Context, cmd RegisterCommand) (*User, error) {
	email, err := NormalizeEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	q := `INSERT INTO public.users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		` + returning

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		return repository.QueryOne(ctx, tx, q, []any{uuid.New(), email, name, hash}, scanUser)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user registered", "id", u.ID)
	return &u, nil
}

func (r *repo) Login(ctx context.Context, cmd LoginCommand) (*Session, error) {
	email, err := NormalizeEmail(cmd.Email)
	if err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	q, args := query.
		NewBuilder(projection).
		BuildSingle("Email", email)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.RejectUnknown(cmd.Password)
		}
		return nil, err
	}

	if err := auth.CheckPassword(u.PasswordHash, cmd.Password); err != nil {
		return nil, err
	}

	token, expires, err := r.tokens.Issue(u.ID.String())
	if err != nil {
		return nil, err
	}

	r.logger.Info("user signed in", "id", u.ID)
	return &Session{Token: token, ExpiresAt: expires, User: &u}, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*User, error) {
	q, args := query.
		NewBuilder(projection).
		BuildSingle("Id", id)

	u, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) UpdateProfile(ctx context.Context, id uuid.UUID, cmd ProfileCommand) (*User, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	aboutMe := current.AboutMe
	if cmd.AboutMe != nil {
		aboutMe = *cmd.AboutMe
	}

	q := `UPDATE public.users SET about_me = $1, profile_image = $2
		WHERE id = $3
		` + returning

	var saved string
	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		image := current.ProfileImage
		if cmd.Upload != nil {
			path, err := r.images.Save(ctx, tx, cmd.Upload)
			if err != nil {
				return User{}, err
			}
			saved, image = path, path
		}
		return repository.QueryOne(ctx, tx, q, []any{aboutMe, image, id}, scanUser)
	})
	if err != nil {
		if saved != current.ProfileImage {
			r.release(ctx, saved, "cleanup failed after db error")
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if current.ProfileImage != u.ProfileImage {
		r.release(ctx, current.ProfileImage, "release of replaced profile image failed")
	}

	r.logger.Info("profile updated", "id", u.ID)
	return &u, nil
}

func (r *repo) release(ctx context.Context, path, msg string) {
	if path == "" {
		return
	}
	if err := r.images.Release(ctx, path); err != nil {
		r.logger.Error(msg, "image", path, "error", err)
	}
}
