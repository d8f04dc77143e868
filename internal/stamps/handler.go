package stamps

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/philatopia/internal/images"
	"github.com/JaimeStill/philatopia/pkg/decode"
	"github.com/JaimeStill/philatopia/pkg/handlers"
	"github.com/JaimeStill/philatopia/pkg/pagination"
	"github.com/JaimeStill/philatopia/pkg/routes"
)

// formOverhead is allowed on top of the upload limit for the other multipart
// fields and boundaries.
const formOverhead = 1 << 20

// Handler provides HTTP endpoints for stamp operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "stamps"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the collection and stamp route groups.
func (h *Handler) Routes() []routes.Group {
	return []routes.Group{
		{
			Prefix:      "/collections",
			Tags:        []string{"Collections"},
			Description: "Per-user stamp listings and stamp maintenance",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
				{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
				{Method: "PUT", Pattern: "/{id}", Handler: h.Update, OpenAPI: Spec.Update},
				{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete, OpenAPI: Spec.Delete},
			},
			Schemas: Spec.Schemas(),
		},
		{
			Prefix:      "/stamps",
			Tags:        []string{"Stamps"},
			Description: "Stamp creation",
			Routes: []routes.Route{
				{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: Spec.Create},
			},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page := pagination.PageRequestFromQuery(values, h.pagination)

	listing, err := h.sys.ListByOwner(r.Context(), values.Get("userId"), page.Page)
	if err != nil {
		handlers.RespondFailure(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, listing)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFailure(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	st, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, st)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(w, r); err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	year, err := ParseYear(r.FormValue("yearIssued"))
	if err != nil {
		handlers.RespondFailure(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var owner uuid.UUID
	if raw := r.FormValue("user"); raw != "" {
		if owner, err = uuid.Parse(raw); err != nil {
			handlers.RespondFailure(w, h.logger, http.StatusBadRequest, ErrInvalidOwner)
			return
		}
	}

	upload, err := images.OptionalFromForm(r, "image", h.maxUploadSize)
	if err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	cmd := CreateCommand{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		YearIssued:  year,
		Country:     r.FormValue("country"),
		Owner:       owner,
		Image:       upload,
	}

	st, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondSuccess(w, http.StatusCreated, handlers.Envelope{"data": st})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFailure(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	var cmd UpdateCommand
	if isMultipart(r) {
		cmd, err = h.updateFromForm(w, r)
	} else {
		cmd, err = decode.JSON[UpdateCommand](w, r, decode.DefaultMaxBytes)
	}
	if err != nil {
		status := MapHTTPStatus(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		handlers.RespondFailure(w, h.logger, status, err)
		return
	}

	st, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondSuccess(w, http.StatusOK, handlers.Envelope{"stamp": st})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondFailure(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondFailure(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondSuccess(w, http.StatusOK, nil)
}

func (h *Handler) updateFromForm(w http.ResponseWriter, r *http.Request) (UpdateCommand, error) {
	var cmd UpdateCommand

	if err := h.parseForm(w, r); err != nil {
		return cmd, err
	}

	form := r.MultipartForm.Value
	field := func(name string) *string {
		if v, ok := form[name]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}

	cmd.Name = field("name")
	cmd.Description = field("description")
	cmd.Country = field("country")

	if raw := field("yearIssued"); raw != nil {
		year, err := ParseYear(*raw)
		if err != nil {
			return cmd, err
		}
		y := FlexInt(year)
		cmd.YearIssued = &y
	}

	upload, err := images.OptionalFromForm(r, "image", h.maxUploadSize)
	if err != nil {
		return cmd, err
	}
	cmd.Upload = upload

	return cmd, nil
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+formOverhead)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return images.ErrTooLarge
		}
		return errors.Join(errMalformedForm, err)
	}
	return nil
}

var errMalformedForm = errors.New("malformed multipart form")

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
