// Package pricing computes the suggested price for a product from its
// current price, margin, competitor price, and demand forecast.
package pricing

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// TargetMargin is the policy floor: the suggested price never drops below
// the price that preserves this margin over cost of goods.
var TargetMargin = decimal.NewFromFloat(0.30)

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)

	// Competitor prices within 10% of the current price pull the
	// suggestion toward parity.
	competitorParityBand = decimal.NewFromFloat(0.10)
)

// Policy suggests prices. Randomness is injected so tests can pin the
// demand-pressure draws.
type Policy struct {
	rng *rand.Rand
}

// NewPolicy creates a policy drawing from the given source
func NewPolicy(rng *rand.Rand) *Policy {
	return &Policy{rng: rng}
}

// MarginFloor returns the minimum price preserving TargetMargin over the
// cost of goods implied by the current price and margin.
func MarginFloor(currentPrice, margin decimal.Decimal) decimal.Decimal {
	costOfGoods := currentPrice.Mul(one.Sub(margin))
	return costOfGoods.Div(one.Sub(TargetMargin))
}

// SuggestPrice derives a suggested price.
//
// The current price is nudged up by U(1.01, 1.05) when the forecast runs
// more than 10% ahead of recent sales, down by U(0.95, 0.99) when it runs
// more than 10% behind. A competitor priced within 10% of the current
// price pulls the suggestion to the midpoint. Whatever the adjustments,
// the result is clamped to the margin floor and rounded half-up to cents.
func (p *Policy) SuggestPrice(currentPrice, margin, competitorPrice decimal.Decimal, forecast, recentSales int) decimal.Decimal {
	floor := MarginFloor(currentPrice, margin)
	base := currentPrice

	switch {
	case float64(forecast) > float64(recentSales)*1.1:
		base = base.Mul(decimal.NewFromFloat(uniform(p.rng, 1.01, 1.05)))
	case float64(forecast) < float64(recentSales)*0.9:
		base = base.Mul(decimal.NewFromFloat(uniform(p.rng, 0.95, 0.99)))
	}

	if competitorPrice.IsPositive() && currentPrice.IsPositive() {
		gap := currentPrice.Sub(competitorPrice).Abs().Div(currentPrice)
		if gap.LessThan(competitorParityBand) {
			base = base.Add(competitorPrice).Div(two)
		}
	}

	suggested := decimal.Max(base, floor).Round(2)
	if suggested.LessThan(floor) {
		// Rounding to cents must never breach the margin floor.
		suggested = floor.RoundUp(2)
	}
	return suggested
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
