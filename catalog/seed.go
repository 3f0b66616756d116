// Package catalog loads product seed files into the catalog. Seeding is a
// bootstrap convenience: a YAML file of products gets the dashboard and
// the prediction batch something to work on before any real catalog sync
// exists.
package catalog

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"retail-pricing/database"
)

// SeedProduct is one product entry in a seed file
type SeedProduct struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Category        string  `yaml:"category"`
	CurrentPrice    float64 `yaml:"current_price"`
	Inventory       int     `yaml:"inventory"`
	SalesLast7Days  int     `yaml:"sales_last_7_days"`
	Margin          float64 `yaml:"margin"`
	CompetitorPrice float64 `yaml:"competitor_price"`
}

// SeedFile is the on-disk seed file shape
type SeedFile struct {
	Products []SeedProduct `yaml:"products"`
}

// ProductWriter is the slice of the product repository seeding needs
type ProductWriter interface {
	GetByID(id string) (*database.Product, error)
	Create(p *database.Product) error
}

// LoadSeedFile parses a YAML seed file
func LoadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

func (p SeedProduct) validate() error {
	if p.Name == "" {
		return database.NewValidationError("name", "must not be empty")
	}
	if p.CurrentPrice <= 0 {
		return database.NewValidationErrorWithValue("current_price", "must be positive", p.CurrentPrice)
	}
	if p.Inventory < 0 {
		return database.NewValidationErrorWithValue("inventory", "must not be negative", p.Inventory)
	}
	if p.SalesLast7Days < 0 {
		return database.NewValidationErrorWithValue("sales_last_7_days", "must not be negative", p.SalesLast7Days)
	}
	if p.Margin < 0 || p.Margin >= 1 {
		return database.NewValidationErrorWithValue("margin", "must be a fraction in [0, 1)", p.Margin)
	}
	if p.CompetitorPrice < 0 {
		return database.NewValidationErrorWithValue("competitor_price", "must not be negative", p.CompetitorPrice)
	}
	return nil
}

// Apply inserts the seed products that do not exist yet. Existing IDs are
// skipped, never overwritten: seeding must stay safe to re-run on a
// populated catalog. Entries without an ID get a generated one.
func (f *SeedFile) Apply(repo ProductWriter) (int, error) {
	created := 0
	for _, sp := range f.Products {
		if err := sp.validate(); err != nil {
			return created, fmt.Errorf("seed product %q: %w", sp.Name, err)
		}

		id := sp.ID
		if id == "" {
			id = "prod-" + uuid.NewString()[:8]
		}

		if _, err := repo.GetByID(id); err == nil {
			log.Printf("⏭️  Seed: product %s already exists, skipping", id)
			continue
		} else if !database.IsNotFound(err) {
			return created, err
		}

		product := &database.Product{
			ID:              id,
			Name:            sp.Name,
			Category:        sp.Category,
			CurrentPrice:    decimal.NewFromFloat(sp.CurrentPrice).Round(2),
			SuggestedPrice:  decimal.NewFromFloat(sp.CurrentPrice).Round(2),
			Inventory:       sp.Inventory,
			SalesLast7Days:  sp.SalesLast7Days,
			Margin:          decimal.NewFromFloat(sp.Margin),
			CompetitorPrice: decimal.NewFromFloat(sp.CompetitorPrice).Round(2),
		}
		if err := repo.Create(product); err != nil {
			return created, err
		}
		created++
		log.Printf("🌱 Seeded product %s (%s)", id, sp.Name)
	}
	return created, nil
}
