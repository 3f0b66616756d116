// Package database provides database connection management for the
// retail-pricing catalog and ledger.
//
// This package includes:
//   - GORM connection management over PostgreSQL
//   - Schema migration for the catalog and daily-ledger tables
//   - A raw database/sql pool for dashboard aggregate queries
//   - Typed errors shared by repositories and the API layer
//
// Data Models:
//
//	Product and ProductDailyRecord are defined in the models_pkg package
//	to avoid circular import dependencies and re-exported here as aliases.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "retail-pricing/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the
// underlying DB instance. It is the central connection point for the
// product and ledger repositories.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// InitSchema migrates the catalog and ledger tables
func (d *Database) InitSchema() error {
	if err := d.db.AutoMigrate(
		&models.Product{},
		&models.ProductDailyRecord{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DayOf normalizes a timestamp to its calendar day (midnight UTC).
// Ledger rows are keyed on the value this returns.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Type aliases so callers outside the database tree can refer to the data
// models without importing models_pkg directly.
type Product = models.Product
type ProductDailyRecord = models.ProductDailyRecord
