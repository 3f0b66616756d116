package api

import (
	"encoding/json"
	"net/http"
	"time"

	"retail-pricing/database"
	"retail-pricing/realtime"
)

type addRecordRequest struct {
	ProductID  string `json:"product_id"`
	Date       string `json:"date"`
	SalesUnits *int   `json:"sales_units"`
}

// handleAddHistoricalRecord inserts a hand-entered ledger row. Inventory
// and price come from the product's current state since the caller only
// supplies the sales figure.
func (s *Server) handleAddHistoricalRecord(w http.ResponseWriter, r *http.Request) {
	var req addRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondWithDomainError(w, database.NewValidationError("product_id", "is required"))
		return
	}
	if req.SalesUnits == nil {
		respondWithDomainError(w, database.NewValidationError("sales_units", "is required"))
		return
	}

	// time.Parse rejects impossible calendar dates like 2024-02-30.
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondWithDomainError(w, database.NewValidationErrorWithValue("date", "must be a valid ISO date (YYYY-MM-DD)", req.Date))
		return
	}

	product, err := s.products.GetByID(req.ProductID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	record, created, err := s.ledger.Upsert(product.ID, database.DayOf(day), *req.SalesUnits, product.Inventory, product.CurrentPrice)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	s.dashCache.InvalidateProduct(r.Context(), product.ID)
	if s.broker != nil {
		s.broker.Broadcast(realtime.EventRecordAdded, record)
	}
	if s.hub != nil {
		s.hub.Broadcast(realtime.EventRecordAdded, record)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]interface{}{
		"record":  record,
		"created": created,
	})
}
