package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents one catalog item and its current pricing state.
// The catalog owns identity and descriptive attributes; the prediction
// engine only ever writes DemandForecast and SuggestedPrice.
//
// Key Fields:
//   - ID: stable string key supplied by the catalog (or generated at seed time)
//   - CurrentPrice: live selling price, 2 decimal places
//   - SuggestedPrice: latest engine output, overwritten on every batch run
//   - DemandForecast: forecast units over the near-term horizon, never negative
//   - SalesLast7Days: trailing 7-day sales total maintained by the catalog
//   - Margin: profit margin as a fraction in [0, 1)
//   - CompetitorPrice: competitor's price for the same item, 0 when unknown
type Product struct {
	ID              string          `gorm:"primaryKey;size:50" json:"id"`
	Name            string          `gorm:"size:200;not null" json:"name"`
	Category        string          `gorm:"size:100;index" json:"category"`
	CurrentPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"current_price"`
	SuggestedPrice  decimal.Decimal `gorm:"type:decimal(10,2)" json:"suggested_price"`
	Inventory       int             `gorm:"not null;default:0" json:"inventory"`
	DemandForecast  int             `gorm:"not null;default:0" json:"demand_forecast"`
	SalesLast7Days  int             `gorm:"not null;default:0" json:"sales_last_7_days"`
	Margin          decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"margin"`
	CompetitorPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"competitor_price"`
	LastUpdated     time.Time       `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// ProductDailyRecord is one row of the historical ledger: the sales,
// inventory and price state of a product at the end of one calendar day.
//
// Grain: (product_id, date). The unique composite index makes writes
// upserts on that pair; the ledger never holds two rows for the same
// product and day and never deletes a row once written.
type ProductDailyRecord struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID      string          `gorm:"size:50;not null;uniqueIndex:idx_product_day,priority:1" json:"product_id"`
	Date           time.Time       `gorm:"type:date;not null;uniqueIndex:idx_product_day,priority:2" json:"date"`
	SalesUnits     int             `gorm:"not null;default:0" json:"sales_units"`
	InventoryLevel int             `gorm:"not null;default:0" json:"inventory_level"`
	PriceAtDayEnd  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_day_end"`
}

// TableName specifies the table name for ProductDailyRecord
func (ProductDailyRecord) TableName() string {
	return "product_daily_records"
}
