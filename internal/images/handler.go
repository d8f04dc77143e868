package images

import (
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/JaimeStill/philatopia/pkg/handlers"
)

// Handler serves stored image blobs.
type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "images"),
	}
}

// Serve handles GET {prefix}/{key...}.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	data, err := h.sys.Open(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	ct := mime.TypeByExtension(path.Ext(key))
	if ct == "" {
		ct = http.DetectContentType(data)
	}

	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
