package helpers

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatPrice formats a currency amount with exactly two decimal places
// and a dollar sign, e.g. "$129.99"
func FormatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// PercentChange formats the relative change from old to new as a signed
// percentage, e.g. "+3.2%". Returns "n/a" when old is zero.
func PercentChange(old, new decimal.Decimal) string {
	if old.IsZero() {
		return "n/a"
	}
	change, _ := new.Sub(old).Div(old).Mul(decimal.NewFromInt(100)).Float64()
	return fmt.Sprintf("%+.1f%%", change)
}
