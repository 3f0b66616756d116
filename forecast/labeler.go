package forecast

import "math/rand"

// Labeler produces the training target for one observed sales count.
// There is no real "next period demand" label in this system; the default
// labeler fabricates one by noising the observed count. Swapping in a real
// label source (e.g. actual next-day sales) is a matter of passing a
// different Labeler to Train.
type Labeler interface {
	Label(salesUnits int) float64
}

// NoisyLabeler labels each sales count with itself scaled by a uniform
// multiplier in [0.95, 1.05]. This keeps the "trained" model an honest
// smoothing step over whatever history exists rather than pretending the
// labels carry signal.
type NoisyLabeler struct {
	rng *rand.Rand
}

// NewNoisyLabeler creates a labeler drawing from the given source
func NewNoisyLabeler(rng *rand.Rand) NoisyLabeler {
	return NoisyLabeler{rng: rng}
}

// Label implements Labeler
func (l NoisyLabeler) Label(salesUnits int) float64 {
	return float64(salesUnits) * uniform(l.rng, 0.95, 1.05)
}

// uniform draws from [lo, hi)
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
