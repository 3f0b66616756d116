package records

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"retail-pricing/database"
	models "retail-pricing/database/models_pkg"
)

// Repository handles database operations for the daily ledger.
// The ledger is upsert-only: rows are keyed on (product_id, date), writes
// for an existing key overwrite, and nothing here ever deletes a row.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new ledger repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func validateCounts(salesUnits, inventoryLevel int) error {
	if salesUnits < 0 {
		return database.NewValidationErrorWithValue("sales_units", "must not be negative", salesUnits)
	}
	if inventoryLevel < 0 {
		return database.NewValidationErrorWithValue("inventory_level", "must not be negative", inventoryLevel)
	}
	return nil
}

// Upsert writes the ledger row for (productID, day), overwriting any
// existing row for that key. Returns the row and whether it was created
// rather than updated.
func (r *Repository) Upsert(productID string, day time.Time, salesUnits, inventoryLevel int, priceAtDayEnd decimal.Decimal) (*models.ProductDailyRecord, bool, error) {
	if err := validateCounts(salesUnits, inventoryLevel); err != nil {
		return nil, false, err
	}

	day = database.DayOf(day)

	existed, err := r.Exists(productID, day)
	if err != nil {
		return nil, false, err
	}

	rec := models.ProductDailyRecord{
		ProductID:      productID,
		Date:           day,
		SalesUnits:     salesUnits,
		InventoryLevel: inventoryLevel,
		PriceAtDayEnd:  priceAtDayEnd,
	}

	// ON CONFLICT on the (product_id, date) index keeps the write a true
	// upsert even if two writers race past the Exists check.
	err = r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"sales_units", "inventory_level", "price_at_day_end"}),
	}).Create(&rec).Error
	if err != nil {
		return nil, false, database.WrapDBError("Upsert", err)
	}

	return &rec, !existed, nil
}

// InsertIfAbsent writes the row only when no row exists for the key yet.
// Returns true when a row was created. The backfill simulator uses this to
// fill gaps without ever touching previously recorded history.
func (r *Repository) InsertIfAbsent(productID string, day time.Time, salesUnits, inventoryLevel int, priceAtDayEnd decimal.Decimal) (bool, error) {
	if err := validateCounts(salesUnits, inventoryLevel); err != nil {
		return false, err
	}

	rec := models.ProductDailyRecord{
		ProductID:      productID,
		Date:           database.DayOf(day),
		SalesUnits:     salesUnits,
		InventoryLevel: inventoryLevel,
		PriceAtDayEnd:  priceAtDayEnd,
	}

	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&rec)
	if res.Error != nil {
		return false, database.WrapDBError("InsertIfAbsent", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Exists reports whether a ledger row exists for (productID, day)
func (r *Repository) Exists(productID string, day time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProductDailyRecord{}).
		Where("product_id = ? AND date = ?", productID, database.DayOf(day)).
		Count(&count).Error
	if err != nil {
		return false, database.WrapDBError("Exists", err)
	}
	return count > 0, nil
}

// Query returns the ledger rows for a product ordered by date. Zero time
// bounds are open: Query(id, time.Time{}, time.Time{}) is the full history.
func (r *Repository) Query(productID string, from, to time.Time) ([]models.ProductDailyRecord, error) {
	query := r.db.Where("product_id = ?", productID).Order("date ASC")

	if !from.IsZero() {
		query = query.Where("date >= ?", database.DayOf(from))
	}
	if !to.IsZero() {
		query = query.Where("date <= ?", database.DayOf(to))
	}

	var recs []models.ProductDailyRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, database.WrapDBError("Query", err)
	}
	return recs, nil
}

// AllGroupedByProduct returns the full ledger grouped by product identity,
// each group ordered by date. The batch orchestrator flattens these groups
// into the model's training pool; routing the lookback through this one
// method keeps a future window cap a local change.
func (r *Repository) AllGroupedByProduct() (map[string][]models.ProductDailyRecord, error) {
	var recs []models.ProductDailyRecord
	if err := r.db.Order("product_id ASC, date ASC").Find(&recs).Error; err != nil {
		return nil, database.WrapDBError("AllGroupedByProduct", err)
	}

	grouped := make(map[string][]models.ProductDailyRecord)
	for _, rec := range recs {
		grouped[rec.ProductID] = append(grouped[rec.ProductID], rec)
	}
	return grouped, nil
}
