package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
	"github.com/go-chi/chi/v5"
)

// ListOverridesHandler lists manual overrides for a market.
func (h *Handler) ListOverridesHandler(w http.ResponseWriter, r *http.Request) {
	market := r.URL.Query().Get("market")
	if market == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'market' is required", "BAD_REQUEST")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"overrides": h.overrides.All(market),
	})
}

// AddOverrideRequest is the payload for POST /api/v1/overrides.
type AddOverrideRequest struct {
	MarketCode        string `json:"market_code" validate:"required,len=2"`
	Date              string `json:"date" validate:"required"`
	Name              string `json:"name" validate:"required"`
	Reason            string `json:"reason"`
	IsClosure         bool   `json:"is_closure"`
	AffectsTrading    bool   `json:"affects_trading"`
	AffectsSettlement bool   `json:"affects_settlement"`
}

// AddOverrideHandler adds a manual override. Requires a valid API key.
func (h *Handler) AddOverrideHandler(w http.ResponseWriter, r *http.Request) {
	var req AddOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if valErr := validateStruct(req); valErr != nil {
		writeValidationError(w, valErr)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD form", "VALIDATION_ERROR")
		return
	}

	if _, ok := h.registry.Get(req.MarketCode); !ok {
		writeError(w, http.StatusBadRequest, "unknown market code: "+req.MarketCode, "VALIDATION_ERROR")
		return
	}

	override := models.ManualOverride{
		MarketCode:        req.MarketCode,
		Date:              date,
		Name:              req.Name,
		Reason:            req.Reason,
		IsClosure:         req.IsClosure,
		AffectsTrading:    req.AffectsTrading,
		AffectsSettlement: req.AffectsSettlement,
		CreatedAt:         time.Now().UTC(),
	}

	if err := h.overrides.Add(override); err != nil {
		writeError(w, http.StatusInternalServerError, "override write failed: "+err.Error(), "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, override)
}

// RemoveOverrideHandler revokes a manual override. Requires a valid API key.
func (h *Handler) RemoveOverrideHandler(w http.ResponseWriter, r *http.Request) {
	market := chi.URLParam(r, "market")
	dateStr := chi.URLParam(r, "date")

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD form", "VALIDATION_ERROR")
		return
	}

	if err := h.overrides.Remove(market, date); err != nil {
		writeError(w, http.StatusInternalServerError, "override write failed: "+err.Error(), "INTERNAL_ERROR")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
