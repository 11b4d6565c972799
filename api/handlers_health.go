package api

import (
	"net/http"
	"time"
)

// HealthHandler returns the liveness status of the API.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"timestamp":      time.Now().UTC(),
		"markets":        len(h.registry.ListCodes()),
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}
