package database

import (
	"fmt"
	"time"
)

// Dashboard-specific data structures

// SeriesPoint is one point of a per-product chart series
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// CatalogSummary holds catalog-wide aggregates for the dashboard header
type CatalogSummary struct {
	TotalProducts  int     `json:"total_products"`
	OutOfStock     int     `json:"out_of_stock"`
	LowStock       int     `json:"low_stock"`
	TotalInventory int     `json:"total_inventory"`
	AvgMarginPct   float64 `json:"avg_margin_pct"`
	LedgerRows     int     `json:"ledger_rows"`
	LatestLedgerDay string `json:"latest_ledger_day,omitempty"`
}

// Chart series kinds
const (
	SeriesSales     = "sales"
	SeriesPrice     = "price"
	SeriesInventory = "inventory"
)

// seriesColumns whitelists the ledger column backing each chart kind.
// Query text is assembled from this map only, never from caller input.
var seriesColumns = map[string]string{
	SeriesSales:     "sales_units",
	SeriesPrice:     "price_at_day_end",
	SeriesInventory: "inventory_level",
}

// AnalyticsRepository runs the dashboard aggregate queries over the raw pool
type AnalyticsRepository struct {
	pool *SQLPool
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(pool *SQLPool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// Series returns the chart series of the given kind for one product,
// oldest day first. days <= 0 returns the full history.
func (r *AnalyticsRepository) Series(productID, kind string, days int) ([]SeriesPoint, error) {
	column, ok := seriesColumns[kind]
	if !ok {
		return nil, NewValidationErrorWithValue("chart_type", "unknown chart type", kind)
	}

	query := fmt.Sprintf(`
		SELECT date, %s
		FROM product_daily_records
		WHERE product_id = $1
	`, column)
	args := []interface{}{productID}

	if days > 0 {
		query += " AND date >= $2"
		args = append(args, DayOf(time.Now()).AddDate(0, 0, -days))
	}
	query += " ORDER BY date ASC"

	rows, err := r.pool.Conn().Query(query, args...)
	if err != nil {
		return nil, WrapDBError("Series", err)
	}
	defer rows.Close()

	var points []SeriesPoint
	for rows.Next() {
		var day time.Time
		var value float64
		if err := rows.Scan(&day, &value); err != nil {
			return nil, WrapDBError("Series", err)
		}
		points = append(points, SeriesPoint{Date: day.Format("2006-01-02"), Value: value})
	}
	return points, rows.Err()
}

// Summary computes catalog-wide aggregates in two passes: one over the
// products table, one over the ledger. Low stock means inventory below
// half the demand forecast but not yet zero, matching the dashboard flag.
func (r *AnalyticsRepository) Summary() (*CatalogSummary, error) {
	var s CatalogSummary

	err := r.pool.Conn().QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN inventory = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN inventory > 0 AND inventory < demand_forecast * 0.5 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(inventory), 0),
			COALESCE(AVG(margin) * 100, 0)
		FROM products
	`).Scan(&s.TotalProducts, &s.OutOfStock, &s.LowStock, &s.TotalInventory, &s.AvgMarginPct)
	if err != nil {
		return nil, WrapDBError("Summary", err)
	}

	var latest *time.Time
	err = r.pool.Conn().QueryRow(`
		SELECT COUNT(*), MAX(date) FROM product_daily_records
	`).Scan(&s.LedgerRows, &latest)
	if err != nil {
		return nil, WrapDBError("Summary", err)
	}
	if latest != nil {
		s.LatestLedgerDay = latest.Format("2006-01-02")
	}

	return &s, nil
}
