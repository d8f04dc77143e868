package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/philatopia/internal/auth"
	"github.com/JaimeStill/philatopia/internal/images"
	"github.com/JaimeStill/philatopia/pkg/decode"
	"github.com/JaimeStill/philatopia/pkg/handlers"
	"github.com/JaimeStill/philatopia/pkg/middleware"
	"github.com/JaimeStill/philatopia/pkg/routes"
)

const formOverhead = 1 << 20

// Handler provides account and profile endpoints.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
	limiter       *middleware.RateLimiter
}

func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64, limiter *middleware.RateLimiter) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "users"),
		maxUploadSize: maxUploadSize,
		limiter:       limiter,
	}
}

// Routes returns the account route group. Register and login are rate
// limited per client when a limiter is configured.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:        []string{"Users"},
		Description: "Registration, sign-in and profiles",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/register", Handler: h.limit(h.Register), OpenAPI: Spec.Register},
			{Method: "POST", Pattern: "/login", Handler: h.limit(h.Login), OpenAPI: Spec.Login},
			{Method: "GET", Pattern: "/profile", Handler: auth.RequireUser(h.logger, h.Profile), OpenAPI: Spec.Profile},
			{Method: "POST", Pattern: "/profile", Handler: auth.RequireUser(h.logger, h.UpdateProfile), OpenAPI: Spec.UpdateProfile},
		},
		Schemas: Spec.Schemas(),
	}
}

func (h *Handler) limit(next http.HandlerFunc) http.HandlerFunc {
	if h.limiter == nil {
		return next
	}
	return h.limiter.HandlerFunc(next)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	cmd, err := decode.JSON[RegisterCommand](w, r, decode.DefaultMaxBytes)
	if err != nil {
		handlers.RespondFailure(w, h.logger, http.StatusBadRequest, err)
		return
	}

	u, err := h.sys.Register(r.Context(), cmd)
	if err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondSuccess(w, http.StatusCreated, handlers.Envelope{"user": u})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	cmd, err := decode.JSON[LoginCommand](w, r, decode.DefaultMaxBytes)
	if err != nil {
		handlers.RespondFailure(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, err := h.sys.Login(r.Context(), cmd)
	if err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondSuccess(w, http.StatusOK, handlers.Envelope{
		"token":     s.Token,
		"expiresAt": s.ExpiresAt,
		"user":      s.User,
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := sessionUser(r)
	if err != nil {
		handlers.RespondFailure(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	u, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondSuccess(w, http.StatusOK, handlers.Envelope{"user": u})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := sessionUser(r)
	if err != nil {
		handlers.RespondFailure(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+formOverhead)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondFailure(w, h.logger, http.StatusRequestEntityTooLarge, images.ErrTooLarge)
			return
		}
		handlers.RespondFailure(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd ProfileCommand
	if v, ok := r.MultipartForm.Value["aboutMe"]; ok && len(v) > 0 {
		cmd.AboutMe = &v[0]
	}

	if cmd.Upload, err = images.OptionalFromForm(r, "image", h.maxUploadSize); err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	u, err := h.sys.UpdateProfile(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondSuccess(w, http.StatusOK, handlers.Envelope{"user": u})
}

func sessionUser(r *http.Request) (uuid.UUID, error) {
	raw, ok := auth.UserFrom(r.Context())
	if !ok {
		return uuid.Nil, auth.ErrUnauthenticated
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, auth.ErrInvalidToken
	}
	return id, nil
}
