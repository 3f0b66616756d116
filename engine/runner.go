// Package engine contains the prediction orchestrator: the batch routine
// that recomputes demand forecasts and suggested prices for the whole
// catalog, logs today's ledger rows, and keeps the trailing history window
// backfilled.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retail-pricing/cache"
	"retail-pricing/database"
	"retail-pricing/forecast"
	"retail-pricing/helpers"
	"retail-pricing/pricing"
	"retail-pricing/realtime"
)

// ErrBatchInProgress is returned when a run is triggered while another is
// still going. Overlapping runs would interleave upserts on the same
// (product, date) keys, so only one pass runs at a time.
var ErrBatchInProgress = errors.New("prediction batch already running")

// ProductStore is the slice of the product repository the engine consumes
type ProductStore interface {
	ListAll() ([]database.Product, error)
	ApplyPrediction(id string, demandForecast int, suggestedPrice decimal.Decimal) error
}

// LedgerStore is the slice of the ledger repository the engine consumes
type LedgerStore interface {
	Upsert(productID string, day time.Time, salesUnits, inventoryLevel int, priceAtDayEnd decimal.Decimal) (*database.ProductDailyRecord, bool, error)
	InsertIfAbsent(productID string, day time.Time, salesUnits, inventoryLevel int, priceAtDayEnd decimal.Decimal) (bool, error)
	Exists(productID string, day time.Time) (bool, error)
	AllGroupedByProduct() (map[string][]database.ProductDailyRecord, error)
}

// BatchReport summarizes one orchestrator pass
type BatchReport struct {
	RunID           string    `json:"run_id"`
	StartedAt       time.Time `json:"started_at"`
	DurationMs      int64     `json:"duration_ms"`
	ModelUsed       bool      `json:"model_used"`
	UpdatedCount    int       `json:"updated_count"`
	LoggedCount     int       `json:"logged_count"`
	BackfilledCount int       `json:"backfilled_count"`
	Errors          []string  `json:"errors"`
}

// PredictionRunner drives the prediction batch, either on demand or on a
// schedule
type PredictionRunner struct {
	products   ProductStore
	ledger     LedgerStore
	models     *forecast.Store
	labeler    forecast.Labeler
	forecaster *forecast.Forecaster
	policy     *pricing.Policy
	backfill   *BackfillSimulator
	rng        *rand.Rand
	interval   time.Duration

	broker    *realtime.Broker
	hub       *realtime.Hub
	dashCache *cache.DashboardCache

	runMu sync.Mutex
	done  chan bool
}

// NewPredictionRunner creates a runner. rng seeds every random draw the
// engine makes, so a fixed source makes a whole pass deterministic.
func NewPredictionRunner(products ProductStore, ledger LedgerStore, models *forecast.Store, rng *rand.Rand, interval time.Duration, backfillDays int) *PredictionRunner {
	return &PredictionRunner{
		products:   products,
		ledger:     ledger,
		models:     models,
		labeler:    forecast.NewNoisyLabeler(rng),
		forecaster: forecast.NewForecaster(rng),
		policy:     pricing.NewPolicy(rng),
		backfill:   NewBackfillSimulator(ledger, rng, backfillDays),
		rng:        rng,
		interval:   interval,
		done:       make(chan bool),
	}
}

// SetBroadcasters attaches the realtime fan-out used after each pass
func (r *PredictionRunner) SetBroadcasters(broker *realtime.Broker, hub *realtime.Hub) {
	r.broker = broker
	r.hub = hub
}

// SetDashboardCache attaches the cache invalidated after each pass
func (r *PredictionRunner) SetDashboardCache(c *cache.DashboardCache) {
	r.dashCache = c
}

// Start begins the scheduled batch loop
func (r *PredictionRunner) Start() {
	log.Printf("📈 Prediction scheduler started (every %v)", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Initial run
	r.runScheduled()

	for {
		select {
		case <-ticker.C:
			r.runScheduled()
		case <-r.done:
			log.Println("📈 Prediction scheduler stopped")
			return
		}
	}
}

// Stop stops the scheduled batch loop
func (r *PredictionRunner) Stop() {
	r.done <- true
}

func (r *PredictionRunner) runScheduled() {
	if _, err := r.RunOnce(false); err != nil && !errors.Is(err, ErrBatchInProgress) {
		log.Printf("⚠️  Scheduled prediction batch failed: %v", err)
	}
}

// RunOnce executes one full orchestrator pass. Per-product failures are
// collected in the report and do not abort the pass; a ledger or catalog
// read failure does. Returns ErrBatchInProgress if a pass is running.
func (r *PredictionRunner) RunOnce(forceRetrain bool) (*BatchReport, error) {
	if !r.runMu.TryLock() {
		return nil, ErrBatchInProgress
	}
	defer r.runMu.Unlock()

	report := &BatchReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Errors:    []string{},
	}
	log.Printf("🚀 Prediction batch %s starting (retrain: %v)", report.RunID, forceRetrain)

	products, err := r.products.ListAll()
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		log.Println("⚠️  No products in the catalog, nothing to predict")
		return report, nil
	}

	history, err := r.ledger.AllGroupedByProduct()
	if err != nil {
		return nil, err
	}

	// One training pool and one shared model for the whole batch.
	var pool []int
	for _, group := range history {
		for _, rec := range group {
			pool = append(pool, rec.SalesUnits)
		}
	}
	model, err := r.models.LoadOrTrain(pool, r.labeler, forceRetrain)
	if err != nil {
		log.Printf("🧊 %v — forecasts fall back to the heuristic", err)
	} else {
		report.ModelUsed = true
	}

	today := database.DayOf(time.Now())
	for i := range products {
		p := &products[i]

		demand := r.forecaster.Predict(model, p.SalesLast7Days)
		suggested := r.policy.SuggestPrice(p.CurrentPrice, p.Margin, p.CompetitorPrice, demand, p.SalesLast7Days)

		if err := r.products.ApplyPrediction(p.ID, demand, suggested); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("product %s: %v", p.ID, err))
			log.Printf("⚠️  Skipping %s: %v", p.ID, err)
			continue
		}
		report.UpdatedCount++
		log.Printf("  💲 %s: forecast %d, suggested %s (%s vs current)",
			p.Name, demand, helpers.FormatPrice(suggested), helpers.PercentChange(p.CurrentPrice, suggested))

		sales := SimulatedDailySales(r.rng, p.SalesLast7Days)
		if _, _, err := r.ledger.Upsert(p.ID, today, sales, p.Inventory, p.CurrentPrice); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("ledger %s: %v", p.ID, err))
			continue
		}
		report.LoggedCount++
	}

	filled, backfillErrs := r.backfill.Fill(products)
	report.BackfilledCount = filled
	report.Errors = append(report.Errors, backfillErrs...)

	report.DurationMs = time.Since(report.StartedAt).Milliseconds()

	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	r.dashCache.InvalidateAll(context.Background(), ids)
	if r.broker != nil {
		r.broker.Broadcast(realtime.EventBatchCompleted, report)
	}
	if r.hub != nil {
		r.hub.Broadcast(realtime.EventBatchCompleted, report)
	}

	log.Printf("✅ Prediction batch %s complete: %d updated, %d logged, %d backfilled, %d errors (%dms)",
		report.RunID, report.UpdatedCount, report.LoggedCount, report.BackfilledCount, len(report.Errors), report.DurationMs)
	return report, nil
}

// SimulatedDailySales draws today's simulated sales count from the
// trailing weekly average: round(avg * U(0.8, 1.2)), never negative.
// There is no real point-of-sale feed; this keeps the ledger populated.
func SimulatedDailySales(rng *rand.Rand, salesLast7Days int) int {
	avg := float64(salesLast7Days) / 7
	v := int(math.Round(avg * (0.8 + rng.Float64()*0.4)))
	if v < 0 {
		return 0
	}
	return v
}
