package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// SQLPool wraps a raw database/sql connection pool. The repositories go
// through GORM; the dashboard aggregate queries use this pool directly
// because they are plain SQL over the ledger with no model mapping.
type SQLPool struct {
	conn *sql.DB
}

// PoolConfig holds raw pool configuration
type PoolConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// NewSQLPool creates a new raw connection pool
func NewSQLPool(cfg PoolConfig) (*SQLPool, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName,
	)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Dashboard reads are bursty but cheap; a small pool is plenty.
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)
	conn.SetConnMaxIdleTime(2 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Analytics connection pool established")

	return &SQLPool{conn: conn}, nil
}

// Close closes the connection pool
func (p *SQLPool) Close() error {
	if p.conn != nil {
		log.Println("📡 Closing analytics connection pool...")
		return p.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB pool
func (p *SQLPool) Conn() *sql.DB {
	return p.conn
}
