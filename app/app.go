package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"retail-pricing/api"
	"retail-pricing/cache"
	"retail-pricing/catalog"
	"retail-pricing/config"
	"retail-pricing/database"
	"retail-pricing/database/products"
	"retail-pricing/database/records"
	"retail-pricing/engine"
	"retail-pricing/forecast"
	"retail-pricing/realtime"
)

// App represents the main application
type App struct {
	config *config.Config

	db      *database.Database
	sqlPool *database.SQLPool
	redis   *cache.RedisClient

	productRepo *products.Repository
	recordRepo  *records.Repository
	analytics   *database.AnalyticsRepository

	broker *realtime.Broker
	hub    *realtime.Hub
	runner *engine.PredictionRunner

	// Path of an optional catalog seed file applied at startup.
	SeedPath string
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// connect brings up the database, Redis, and the repositories. Shared by
// the server and the one-shot batch mode.
func (a *App) connect() error {
	fmt.Println("🗄️  Connecting to database...")

	dbPort, err := strconv.Atoi(a.config.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port: %w", err)
	}

	db, err := database.Connect(
		a.config.DatabaseHost,
		dbPort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	if err := a.db.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// Raw pool for the dashboard aggregate queries
	pool, err := database.NewSQLPool(database.PoolConfig{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		DBName:   a.config.DatabaseName,
	})
	if err != nil {
		return fmt.Errorf("analytics pool failed: %w", err)
	}
	a.sqlPool = pool

	fmt.Println("🧠 Connecting to Redis...")
	redisClient := cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if redisClient == nil {
		fmt.Println("⚠️  Redis connection failed. Dashboard caching disabled.")
	} else {
		a.redis = redisClient
	}

	a.productRepo = products.NewRepository(a.db.DB())
	a.recordRepo = records.NewRepository(a.db.DB())
	a.analytics = database.NewAnalyticsRepository(a.sqlPool)

	if a.SeedPath != "" {
		seed, err := catalog.LoadSeedFile(a.SeedPath)
		if err != nil {
			return fmt.Errorf("seed file failed: %w", err)
		}
		created, err := seed.Apply(a.productRepo)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		log.Printf("🌱 Seeded %d new products from %s", created, a.SeedPath)
	}

	return nil
}

func (a *App) newRunner() *engine.PredictionRunner {
	modelStore := forecast.NewStore(a.config.Engine.ModelPath)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return engine.NewPredictionRunner(
		a.productRepo,
		a.recordRepo,
		modelStore,
		rng,
		a.config.Engine.BatchInterval,
		a.config.Engine.BackfillDays,
	)
}

// RunBatch connects, runs one prediction batch, and tears down. Used by
// the -batch CLI mode and cron-style invocations.
func (a *App) RunBatch(forceRetrain bool) (*engine.BatchReport, error) {
	if err := a.connect(); err != nil {
		return nil, err
	}
	defer a.teardown()

	runner := a.newRunner()
	return runner.RunOnce(forceRetrain)
}

// Start starts the application
func (a *App) Start() error {
	if err := a.connect(); err != nil {
		return err
	}

	// Realtime fan-out
	a.broker = realtime.NewBroker()
	a.hub = realtime.NewHub()
	go a.hub.Run()

	dashCache := cache.NewDashboardCache(a.redis, a.config.Engine.DashboardCacheTTL)

	// Prediction scheduler
	a.runner = a.newRunner()
	a.runner.SetBroadcasters(a.broker, a.hub)
	a.runner.SetDashboardCache(dashCache)
	go a.runner.Start()

	// API server
	apiServer := api.NewServer(
		a.productRepo,
		a.recordRepo,
		a.runner,
		a.analytics,
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)
	apiServer.SetRealtime(a.broker, a.hub)
	apiServer.SetDashboardCache(dashCache)

	go func() {
		if err := apiServer.Start(a.config.ServerPort); err != nil {
			log.Printf("⚠️  API Server failed: %v", err)
		}
	}()

	return a.gracefulShutdown()
}

// gracefulShutdown handles graceful shutdown with timeout
func (a *App) gracefulShutdown() error {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	<-interrupt
	fmt.Println("\n🛑 Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	shutdownComplete := make(chan struct{})
	go func() {
		if a.runner != nil {
			fmt.Println("📈 Stopping prediction scheduler...")
			a.runner.Stop()
		}
		a.teardown()
		close(shutdownComplete)
	}()

	select {
	case <-shutdownComplete:
		fmt.Println("✅ Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		fmt.Println("⚠️  Shutdown timeout exceeded, forcing exit")
		return fmt.Errorf("shutdown timeout")
	}
}

func (a *App) teardown() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		} else {
			fmt.Println("✅ Database connection closed")
		}
	}
	if a.sqlPool != nil {
		if err := a.sqlPool.Close(); err != nil {
			log.Printf("Error closing analytics pool: %v", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("Error closing redis: %v", err)
		} else {
			fmt.Println("✅ Redis connection closed")
		}
	}
}
