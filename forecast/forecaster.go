package forecast

import (
	"log"
	"math"
	"math/rand"
)

// Forecaster turns a model (or its absence) into a demand forecast.
// Randomness is injected so tests can fix the draws.
type Forecaster struct {
	rng *rand.Rand
}

// NewForecaster creates a forecaster drawing jitter from the given source
func NewForecaster(rng *rand.Rand) *Forecaster {
	return &Forecaster{rng: rng}
}

// Predict forecasts near-term demand from the trailing 7-day sales total.
// A nil model, or any failure applying a model, degrades to the heuristic
// round(sales7 * U(0.9, 1.1)). Both paths then scale the result by an
// explicit forecast-noise jitter U(0.95, 1.05) and round again; the number
// is a simulation, and the jitter keeps it from looking exact. The result
// is never negative.
func (f *Forecaster) Predict(model *Model, salesLast7Days int) int {
	base := 0
	usedModel := false

	if model != nil {
		if raw, err := model.apply(float64(salesLast7Days)); err == nil {
			base = roundNonNegative(raw)
			usedModel = true
		} else {
			log.Printf("⚠️  Demand model application failed (%v), using fallback", err)
		}
	}

	if !usedModel {
		base = roundNonNegative(float64(salesLast7Days) * uniform(f.rng, 0.9, 1.1))
	}

	return roundNonNegative(float64(base) * uniform(f.rng, 0.95, 1.05))
}

func roundNonNegative(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Round(v))
}
