package api

import (
	"net/http"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
)

// GetNotificationsHandler returns the most recent events of the
// OverrideEvent feed (A5), newest first, without removing them.
func (h *Handler) GetNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	if h.notificationManager == nil {
		writeError(w, http.StatusServiceUnavailable, "notification manager not initialized", "SERVICE_UNAVAILABLE")
		return
	}

	limit := getQueryInt(r, "limit", 50)

	events := h.notificationManager.Recent(limit)
	if events == nil {
		events = []models.OverrideEvent{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}
