// Package forecast implements the demand-forecast side of the pricing
// engine: a single-feature linear model trained on ledger history, a JSON
// artifact store for reuse across batch runs, and the heuristic fallback
// used whenever no usable model exists.
package forecast

import (
	"errors"
	"math"
	"time"
)

// ErrModelUnavailable signals that no model could be loaded or trained.
// It is not fatal: predictions degrade to the heuristic fallback.
var ErrModelUnavailable = errors.New("demand model unavailable")

// Model is a fitted least-squares line mapping a day's sales-unit count to
// a near-term demand estimate. The coefficients are all there is to it;
// the struct doubles as the persisted artifact shape.
type Model struct {
	Slope      float64   `json:"slope"`
	Intercept  float64   `json:"intercept"`
	SampleSize int       `json:"sample_size"`
	TrainedAt  time.Time `json:"trained_at"`
}

// Train fits the model over per-day sales counts from the ledger. Targets
// come from the labeler, so the labeling strategy can be swapped without
// touching the fit. Fewer than 2 samples, or a pool with no variance in
// the feature, cannot pin down a line: both return ErrModelUnavailable.
func Train(samples []int, labeler Labeler) (*Model, error) {
	if len(samples) < 2 {
		return nil, ErrModelUnavailable
	}

	n := float64(len(samples))
	var sumX, sumY, sumXX, sumXY float64
	for _, s := range samples {
		x := float64(s)
		y := labeler.Label(s)
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return nil, ErrModelUnavailable
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	if math.IsNaN(slope) || math.IsInf(slope, 0) || math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, ErrModelUnavailable
	}

	return &Model{
		Slope:      slope,
		Intercept:  intercept,
		SampleSize: len(samples),
		TrainedAt:  time.Now().UTC(),
	}, nil
}

// apply evaluates the fitted line at x. Returns an error instead of a
// value when the stored coefficients are unusable (e.g. a corrupt or
// hand-edited artifact), so the caller can fall back.
func (m *Model) apply(x float64) (float64, error) {
	y := m.Slope*x + m.Intercept
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, ErrModelUnavailable
	}
	return y, nil
}
