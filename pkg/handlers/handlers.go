// Package handlers provides HTTP response utilities for JSON APIs.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RespondJSON writes data as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs the error and writes {"error": "<message>"}.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logStatus(logger, status, err)
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// Envelope is the {success, ...} body shape used by the collection endpoints.
// Payload fields are merged next to "success".
type Envelope map[string]any

// RespondSuccess writes {"success": true} merged with payload.
func RespondSuccess(w http.ResponseWriter, status int, payload Envelope) {
	body := Envelope{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	RespondJSON(w, status, body)
}

// RespondFailure logs the error and writes {"success": false, "error": "<message>"}.
func RespondFailure(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logStatus(logger, status, err)
	RespondJSON(w, status, Envelope{"success": false, "error": err.Error()})
}

func logStatus(logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "error", err, "status", status)
		return
	}
	logger.Warn("request rejected", "error", err, "status", status)
}
