package products

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"retail-pricing/database"
	models "retail-pricing/database/models_pkg"
)

// Repository handles database operations for catalog products
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new products repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every product ordered by name
func (r *Repository) ListAll() ([]models.Product, error) {
	var list []models.Product
	if err := r.db.Order("name ASC").Find(&list).Error; err != nil {
		return nil, database.WrapDBError("ListAll", err)
	}
	return list, nil
}

// GetByID returns one product or a NotFoundError
func (r *Repository) GetByID(id string) (*models.Product, error) {
	var p models.Product
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.NewNotFoundError("product", id)
		}
		return nil, database.WrapDBError("GetByID", err)
	}
	return &p, nil
}

// Save persists the full product state
func (r *Repository) Save(p *models.Product) error {
	if err := r.db.Save(p).Error; err != nil {
		return database.WrapDBError("Save", err)
	}
	return nil
}

// Create inserts a new product, failing if the ID already exists
func (r *Repository) Create(p *models.Product) error {
	if err := r.db.Create(p).Error; err != nil {
		return database.WrapDBError("Create", err)
	}
	return nil
}

// ApplyPrediction writes the engine outputs back to a product. Only the
// forecast and suggested price columns are touched; catalog attributes
// stay owned by the catalog. Returns NotFoundError if the product vanished
// between the batch snapshot and this write.
func (r *Repository) ApplyPrediction(id string, demandForecast int, suggestedPrice decimal.Decimal) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"demand_forecast": demandForecast,
			"suggested_price": suggestedPrice,
		})
	if res.Error != nil {
		return database.WrapDBError("ApplyPrediction", res.Error)
	}
	if res.RowsAffected == 0 {
		return database.NewNotFoundError("product", id)
	}
	return nil
}
