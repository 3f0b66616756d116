package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"retail-pricing/database"
	"retail-pricing/realtime"
)

// productView decorates a product with the stock flags and the trailing
// sales sparkline the dashboard renders per row.
type productView struct {
	database.Product
	IsOutOfStock    bool  `json:"is_out_of_stock"`
	IsLowStock      bool  `json:"is_low_stock"`
	HistoricalSales []int `json:"historical_sales"`
}

func (s *Server) decorateProduct(p database.Product) productView {
	view := productView{
		Product:         p,
		IsOutOfStock:    p.Inventory <= 0,
		HistoricalSales: make([]int, 7),
	}
	view.IsLowStock = p.Inventory > 0 && float64(p.Inventory) < float64(p.DemandForecast)*0.5

	today := database.DayOf(time.Now())
	from := today.AddDate(0, 0, -6)
	rows, err := s.ledger.Query(p.ID, from, today)
	if err != nil {
		return view
	}
	byDay := make(map[time.Time]int, len(rows))
	for _, r := range rows {
		byDay[database.DayOf(r.Date)] = r.SalesUnits
	}
	for i := 0; i < 7; i++ {
		view.HistoricalSales[i] = byDay[from.AddDate(0, 0, i)]
	}
	return view
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.ListAll()
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, s.decorateProduct(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	product, err := s.products.GetByID(id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.decorateProduct(*product))
}

type updateProductRequest struct {
	CurrentPrice *float64 `json:"current_price"`
	Inventory    *int     `json:"inventory"`
}

// handleUpdateProduct applies a manual price/inventory change and records
// today's ledger row so the change shows up in the product's history. The
// stored forecast is left as-is until the next batch run.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CurrentPrice == nil && req.Inventory == nil {
		respondWithError(w, http.StatusBadRequest, "nothing to update: provide current_price and/or inventory")
		return
	}

	product, err := s.products.GetByID(id)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	if req.CurrentPrice != nil {
		if *req.CurrentPrice <= 0 {
			respondWithDomainError(w, database.NewValidationError("current_price", "must be greater than zero"))
			return
		}
		product.CurrentPrice = decimal.NewFromFloat(*req.CurrentPrice).Round(2)
	}
	if req.Inventory != nil {
		if *req.Inventory < 0 {
			respondWithDomainError(w, database.NewValidationError("inventory", "must not be negative"))
			return
		}
		product.Inventory = *req.Inventory
	}

	if err := s.products.Save(product); err != nil {
		respondWithDomainError(w, err)
		return
	}

	today := database.DayOf(time.Now())
	sales := s.simulatedDailySales(product.SalesLast7Days)
	if _, _, err := s.ledger.Upsert(product.ID, today, sales, product.Inventory, product.CurrentPrice); err != nil {
		respondWithDomainError(w, err)
		return
	}

	s.dashCache.InvalidateProduct(r.Context(), product.ID)
	if s.broker != nil {
		s.broker.Broadcast(realtime.EventProductUpdated, product)
	}
	if s.hub != nil {
		s.hub.Broadcast(realtime.EventProductUpdated, product)
	}

	writeJSON(w, http.StatusOK, s.decorateProduct(*product))
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.products.GetByID(id); err != nil {
		respondWithDomainError(w, err)
		return
	}

	rows, err := s.ledger.Query(id, time.Time{}, time.Time{})
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
