package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort int

	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// Engine configuration
	Engine EngineConfig
}

// EngineConfig holds parameters for the pricing and forecast engine
type EngineConfig struct {
	// Path of the persisted demand model artifact. Absence means cold start.
	ModelPath string

	// How often the prediction batch runs when the scheduler is enabled.
	BatchInterval time.Duration

	// Trailing window (days) the backfill simulator keeps populated.
	BackfillDays int

	// TTL for cached dashboard aggregates.
	DashboardCacheTTL time.Duration
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "retail_pricing"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "pricing"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "pricing123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// Engine configuration
		Engine: EngineConfig{
			ModelPath:         getEnvOrDefault("ENGINE_MODEL_PATH", "./data/demand_model.json"),
			BatchInterval:     getEnvDuration("ENGINE_BATCH_INTERVAL", 24*time.Hour),
			BackfillDays:      getEnvInt("ENGINE_BACKFILL_DAYS", 7),
			DashboardCacheTTL: getEnvDuration("ENGINE_DASHBOARD_CACHE_TTL", 5*time.Minute),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvDuration gets environment variable as a Go duration string or returns default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
