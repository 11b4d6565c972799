package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListMarketsHandler returns every market in the registry (C1 list_all).
func (h *Handler) ListMarketsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"markets": h.registry.ListAll(),
		"version": h.registry.Version(),
	})
}

// GetMarketHandler returns a single market's configuration (C1 get).
func (h *Handler) GetMarketHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	market, ok := h.registry.Get(code)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown market code: "+code, "NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, market)
}

// GetMarketStatusHandler returns a market's current open/closed status.
func (h *Handler) GetMarketStatusHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	status, err := h.engine.GetMarketStatus(code)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// CompareMarketsHandler returns a side-by-side comparison of two markets'
// current status and today's trading-session overlap.
func (h *Handler) CompareMarketsHandler(w http.ResponseWriter, r *http.Request) {
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "query parameters 'a' and 'b' are required", "BAD_REQUEST")
		return
	}

	comparison, err := h.engine.GetMarketPairComparison(a, b)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}
