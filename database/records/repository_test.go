package records

import (
	"testing"
	"time"

	"retail-pricing/database"
)

func TestValidateCounts(t *testing.T) {
	tests := []struct {
		name      string
		sales     int
		inventory int
		wantErr   bool
	}{
		{"both zero", 0, 0, false},
		{"positive counts", 12, 80, false},
		{"negative sales", -1, 80, true},
		{"negative inventory", 12, -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCounts(tt.sales, tt.inventory)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected a validation error")
				}
				if !database.IsValidation(err) {
					t.Errorf("expected ValidationError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDayOfNormalizesLedgerKeys(t *testing.T) {
	// Two timestamps on the same calendar day must map to one ledger key.
	loc := time.FixedZone("UTC+7", 7*3600)
	morning := time.Date(2024, 3, 15, 0, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 16, 2, 15, 0, 0, loc) // still Mar 15 in UTC

	a := database.DayOf(morning)
	b := database.DayOf(evening)

	if !a.Equal(b) {
		t.Errorf("expected one key for both timestamps, got %v and %v", a, b)
	}
	if a.Hour() != 0 || a.Minute() != 0 || a.Second() != 0 {
		t.Errorf("expected midnight, got %v", a)
	}
	if a.Location() != time.UTC {
		t.Errorf("expected UTC, got %v", a.Location())
	}
}
