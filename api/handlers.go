package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/audit"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/calendar"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/config"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/holidaydata"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/notifications"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/registry"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/settlement"
	"github.com/rs/zerolog/log"
)

// Handler holds the HTTP handlers for the API.
type Handler struct {
	registry            *registry.Registry
	overrides           *holidaydata.OverrideStore
	calendar            *calendar.Service
	engine              *settlement.Engine
	auditLog            *audit.Store
	notificationManager *notifications.Manager
	config              *config.Config
	startTime           time.Time
}

// NewHandler creates a new handler instance wired to the settlement
// feasibility engine and its supporting components.
func NewHandler(
	reg *registry.Registry,
	overrides *holidaydata.OverrideStore,
	cal *calendar.Service,
	engine *settlement.Engine,
	auditLog *audit.Store,
	notificationManager *notifications.Manager,
	cfg *config.Config,
) *Handler {
	return &Handler{
		registry:            reg,
		overrides:           overrides,
		calendar:            cal,
		engine:              engine,
		auditLog:            auditLog,
		notificationManager: notificationManager,
		config:              cfg,
		startTime:           time.Now(),
	}
}

// getQueryInt parses a query parameter as an integer.
func getQueryInt(r *http.Request, key string, defaultVal int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// writeError writes a JSON error response. The optional code argument
// allows specifying a machine-readable error code; otherwise one is
// inferred from the status.
func writeError(w http.ResponseWriter, status int, message string, code ...string) {
	errCode := "UNKNOWN_ERROR"
	if len(code) > 0 {
		errCode = code[0]
	} else {
		switch status {
		case http.StatusBadRequest:
			errCode = "BAD_REQUEST"
		case http.StatusUnauthorized:
			errCode = "UNAUTHORIZED"
		case http.StatusForbidden:
			errCode = "FORBIDDEN"
		case http.StatusNotFound:
			errCode = "NOT_FOUND"
		case http.StatusServiceUnavailable:
			errCode = "SERVICE_UNAVAILABLE"
		case http.StatusInternalServerError:
			errCode = "INTERNAL_ERROR"
		}
	}

	resp := APIError{
		Error: message,
		Code:  errCode,
	}
	writeJSON(w, status, resp)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}
