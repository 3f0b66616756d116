package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"retail-pricing/database"
)

func TestBackfillFillsTrailingWindow(t *testing.T) {
	ledger := newFakeLedger()
	sim := NewBackfillSimulator(ledger, rand.New(rand.NewSource(1)), 7)

	products := []database.Product{testProduct("p1", 70)}
	filled, errs := sim.Fill(products)

	if len(errs) != 0 {
		t.Fatalf("Fill errors = %v, want none", errs)
	}
	if filled != 7 {
		t.Fatalf("filled = %d, want 7", filled)
	}

	today := database.DayOf(time.Now())
	for offset := 1; offset <= 7; offset++ {
		day := today.AddDate(0, 0, -offset)
		rec, ok := ledger.rows[ledgerKey("p1", day)]
		if !ok {
			t.Fatalf("no row for day -%d", offset)
		}
		// avg 10/day scattered by [0.7, 1.3].
		if rec.SalesUnits < 7 || rec.SalesUnits > 13 {
			t.Errorf("day -%d sales = %d, want within [7, 13]", offset, rec.SalesUnits)
		}
		if rec.InventoryLevel < 80 || rec.InventoryLevel > 120 {
			t.Errorf("day -%d inventory = %d, want within [80, 120]", offset, rec.InventoryLevel)
		}
		if rec.PriceAtDayEnd.LessThan(decimal.NewFromFloat(49.00)) || rec.PriceAtDayEnd.GreaterThan(decimal.NewFromFloat(51.00)) {
			t.Errorf("day -%d price = %s, want within [49.00, 51.00]", offset, rec.PriceAtDayEnd)
		}
	}

	// Today is the orchestrator's row, not the backfiller's.
	if _, ok := ledger.rows[ledgerKey("p1", today)]; ok {
		t.Error("backfill wrote a row for today")
	}
}

func TestBackfillSecondRunIsNoOp(t *testing.T) {
	ledger := newFakeLedger()
	sim := NewBackfillSimulator(ledger, rand.New(rand.NewSource(1)), 7)
	products := []database.Product{testProduct("p1", 70)}

	if filled, _ := sim.Fill(products); filled != 7 {
		t.Fatalf("first run filled %d, want 7", filled)
	}
	if filled, _ := sim.Fill(products); filled != 0 {
		t.Errorf("second run filled %d, want 0", filled)
	}
}

func TestBackfillNeverOverwritesExistingRows(t *testing.T) {
	ledger := newFakeLedger()
	day := database.DayOf(time.Now()).AddDate(0, 0, -3)

	// A manually entered row with a recognizable sales count.
	if _, _, err := ledger.Upsert("p1", day, 999, 5, decimal.NewFromFloat(42.00)); err != nil {
		t.Fatal(err)
	}

	sim := NewBackfillSimulator(ledger, rand.New(rand.NewSource(1)), 7)
	filled, errs := sim.Fill([]database.Product{testProduct("p1", 70)})

	if len(errs) != 0 {
		t.Fatalf("Fill errors = %v", errs)
	}
	if filled != 6 {
		t.Errorf("filled = %d, want 6 (one day already recorded)", filled)
	}

	rec := ledger.rows[ledgerKey("p1", day)]
	if rec.SalesUnits != 999 {
		t.Errorf("existing row sales = %d, want untouched 999", rec.SalesUnits)
	}
}

func TestBackfillClampsAtZero(t *testing.T) {
	ledger := newFakeLedger()
	sim := NewBackfillSimulator(ledger, rand.New(rand.NewSource(3)), 7)

	product := testProduct("p1", 0)
	product.Inventory = 0
	filled, errs := sim.Fill([]database.Product{product})

	if len(errs) != 0 {
		t.Fatalf("Fill errors = %v", errs)
	}
	if filled != 7 {
		t.Fatalf("filled = %d, want 7", filled)
	}
	for _, rec := range ledger.rows {
		if rec.SalesUnits != 0 {
			t.Errorf("sales = %d, want 0 for a product with no recent sales", rec.SalesUnits)
		}
		if rec.InventoryLevel < 0 {
			t.Errorf("inventory = %d, want >= 0", rec.InventoryLevel)
		}
	}
}
