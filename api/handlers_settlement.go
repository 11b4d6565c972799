package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
)

// CheckSettlementHandler runs check_settlement (C6) against the request
// body and returns the full SettlementResult, including non-LIKELY
// outcomes: infeasible trades are a normal 200 response, not an error.
func (h *Handler) CheckSettlementHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SettlementCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	if valErr := validateStruct(req); valErr != nil {
		writeValidationError(w, valErr)
		return
	}

	if !models.ValidInstrumentType(req.InstrumentType) {
		writeError(w, http.StatusBadRequest, "unrecognized instrument_type", "VALIDATION_ERROR")
		return
	}

	result := h.engine.CheckSettlement(req)

	if h.auditLog != nil {
		h.auditLog.RecordCheck(models.AuditRecord{
			OccurredAt:    time.Now().UTC(),
			TradeDate:     result.TradeDate,
			BuyMarket:     result.BuyMarket,
			SellMarket:    result.SellMarket,
			Status:        string(result.Status),
			ExecutionTime: req.ExecutionTime,
		})
	}

	writeJSON(w, http.StatusOK, result)
}
