package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Fantasim/balanceapi/internal/models"
)

// HealthHandler returns a handler for the GET /health endpoint.
// It does not contact the node.
func HealthHandler(tokenAddress, version string, batchConcurrency int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("health check requested", "remoteAddr", r.RemoteAddr)

		writeJSON(w, http.StatusOK, models.HealthStatus{
			Status:           "ok",
			Version:          version,
			TokenAddress:     tokenAddress,
			BatchConcurrency: batchConcurrency,
		})
	}
}
