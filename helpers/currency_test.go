package helpers

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"129.99", "$129.99"},
		{"100", "$100.00"},
		{"0", "$0.00"},
		{"15.5", "$15.50"},
	}

	for _, tt := range tests {
		in, _ := decimal.NewFromString(tt.in)
		if got := FormatPrice(in); got != tt.want {
			t.Errorf("FormatPrice(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		old, new string
		want     string
	}{
		{"100", "103.20", "+3.2%"},
		{"100", "95", "-5.0%"},
		{"100", "100", "+0.0%"},
		{"0", "10", "n/a"},
	}

	for _, tt := range tests {
		old, _ := decimal.NewFromString(tt.old)
		new, _ := decimal.NewFromString(tt.new)
		if got := PercentChange(old, new); got != tt.want {
			t.Errorf("PercentChange(%s, %s) = %q, want %q", tt.old, tt.new, got, tt.want)
		}
	}
}
