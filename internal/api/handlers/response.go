package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Fantasim/balanceapi/internal/models"
	"github.com/Fantasim/balanceapi/internal/service"
)

// writeJSON writes data inside the {"data": ...} envelope.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.APIResponse{Data: data}); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// writeError writes a flat {"error": kind, "message": ...} envelope.
func writeError(w http.ResponseWriter, status int, kind models.ErrorKind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.ErrorEnvelope{
		Error:   kind,
		Message: message,
	}); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

// writeFailure classifies err and writes the matching error envelope.
// Returns the kind written.
func writeFailure(w http.ResponseWriter, err error) models.ErrorKind {
	kind := service.Classify(err)
	status := http.StatusInternalServerError
	if kind.IsClientError() {
		status = http.StatusBadRequest
	}
	writeError(w, status, kind, err.Error())
	return kind
}

// WriteInternalError writes a 500 InternalError envelope.
func WriteInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, models.ErrorKindInternal, message)
}
