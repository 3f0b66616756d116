package engine

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"retail-pricing/database"
)

// BackfillSimulator fills gaps in the trailing ledger window with
// synthetic rows so charting and training never see holes. It only ever
// creates rows: a day that already has one — recorded, manually entered,
// or previously backfilled — is left alone.
type BackfillSimulator struct {
	ledger LedgerStore
	rng    *rand.Rand
	window int
}

// NewBackfillSimulator creates a simulator covering the trailing window days
func NewBackfillSimulator(ledger LedgerStore, rng *rand.Rand, window int) *BackfillSimulator {
	return &BackfillSimulator{ledger: ledger, rng: rng, window: window}
}

// Fill synthesizes missing rows for each product over days -1..-window.
// Sales scatter around the trailing daily average, inventory wobbles by up
// to ±20 units, and price wobbles within ±2%. Returns how many rows were
// created and any per-row errors; errors never stop the sweep.
func (b *BackfillSimulator) Fill(products []database.Product) (int, []string) {
	today := database.DayOf(time.Now())
	filled := 0
	var errs []string

	for i := range products {
		p := &products[i]
		dailyAvg := float64(p.SalesLast7Days) / 7

		for offset := 1; offset <= b.window; offset++ {
			day := today.AddDate(0, 0, -offset)

			exists, err := b.ledger.Exists(p.ID, day)
			if err != nil {
				errs = append(errs, fmt.Sprintf("backfill %s %s: %v", p.ID, day.Format("2006-01-02"), err))
				continue
			}
			if exists {
				continue
			}

			sales := int(math.Round(dailyAvg * b.uniform(0.7, 1.3)))
			if sales < 0 {
				sales = 0
			}
			inventory := p.Inventory + b.rng.Intn(41) - 20
			if inventory < 0 {
				inventory = 0
			}
			price := p.CurrentPrice.Mul(decimal.NewFromFloat(b.uniform(0.98, 1.02))).Round(2)

			created, err := b.ledger.InsertIfAbsent(p.ID, day, sales, inventory, price)
			if err != nil {
				errs = append(errs, fmt.Sprintf("backfill %s %s: %v", p.ID, day.Format("2006-01-02"), err))
				continue
			}
			if created {
				filled++
			}
		}
	}

	if filled > 0 {
		log.Printf("🧩 Backfilled %d missing ledger rows across %d products", filled, len(products))
	}
	return filled, errs
}

func (b *BackfillSimulator) uniform(lo, hi float64) float64 {
	return lo + b.rng.Float64()*(hi-lo)
}
