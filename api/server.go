package api

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"retail-pricing/cache"
	"retail-pricing/database"
	"retail-pricing/engine"
	"retail-pricing/realtime"
)

// ProductStore is the slice of the product repository the API consumes
type ProductStore interface {
	ListAll() ([]database.Product, error)
	GetByID(id string) (*database.Product, error)
	Save(p *database.Product) error
}

// LedgerStore is the slice of the ledger repository the API consumes
type LedgerStore interface {
	Upsert(productID string, day time.Time, salesUnits, inventoryLevel int, priceAtDayEnd decimal.Decimal) (*database.ProductDailyRecord, bool, error)
	Query(productID string, from, to time.Time) ([]database.ProductDailyRecord, error)
}

// BatchRunner triggers a prediction batch on demand
type BatchRunner interface {
	RunOnce(forceRetrain bool) (*engine.BatchReport, error)
}

// ChartSource serves the dashboard aggregate queries
type ChartSource interface {
	Series(productID, kind string, days int) ([]database.SeriesPoint, error)
	Summary() (*database.CatalogSummary, error)
}

// Server handles HTTP API requests
type Server struct {
	products  ProductStore
	ledger    LedgerStore
	runner    BatchRunner
	charts    ChartSource
	broker    *realtime.Broker
	hub       *realtime.Hub
	dashCache *cache.DashboardCache

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewServer creates a new API server instance
func NewServer(products ProductStore, ledger LedgerStore, runner BatchRunner, charts ChartSource, rng *rand.Rand) *Server {
	return &Server{
		products: products,
		ledger:   ledger,
		runner:   runner,
		charts:   charts,
		rng:      rng,
	}
}

// SetRealtime attaches the SSE broker and WebSocket hub
func (s *Server) SetRealtime(broker *realtime.Broker, hub *realtime.Hub) {
	s.broker = broker
	s.hub = hub
}

// SetDashboardCache attaches the dashboard cache
func (s *Server) SetDashboardCache(c *cache.DashboardCache) {
	s.dashCache = c
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// Catalog routes
	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	mux.HandleFunc("POST /api/products/{id}", s.handleUpdateProduct)
	mux.HandleFunc("GET /api/products/{id}/history", s.handleGetHistory)

	// Ledger routes
	mux.HandleFunc("POST /api/records", s.handleAddHistoricalRecord)

	// Engine routes
	mux.HandleFunc("POST /api/predictions/run", s.handleRunPredictions)

	// Dashboard routes
	mux.HandleFunc("GET /api/charts/{id}/{type}", s.handleGetChart)
	mux.HandleFunc("GET /api/dashboard/summary", s.handleDashboardSummary)

	// Realtime routes
	if s.broker != nil {
		mux.Handle("GET /api/events", s.broker) // SSE endpoint
	}
	if s.hub != nil {
		mux.HandleFunc("GET /ws", s.hub.HandleWS)
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	// Serve Static Files (Public UI)
	fs := http.FileServer(http.Dir("./public"))
	mux.Handle("GET /", fs)

	// Add middleware
	handler := s.corsMiddleware(s.loggingMiddleware(mux))

	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, handler)
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// simulatedDailySales serializes draws from the shared source; handlers
// run concurrently and rand.Rand is not goroutine-safe.
func (s *Server) simulatedDailySales(salesLast7Days int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return engine.SimulatedDailySales(s.rng, salesLast7Days)
}
