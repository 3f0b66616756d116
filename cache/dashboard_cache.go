package cache

import (
	"context"
	"fmt"
	"time"

	"retail-pricing/database"
)

const (
	summaryKey      = "dashboard:summary"
	seriesKeyFormat = "dashboard:series:%s:%s"
)

// DashboardCache caches dashboard aggregates between batch runs. All
// methods are safe on a nil redis client: reads miss, writes no-op, so the
// dashboard simply falls back to the database when Redis is down.
type DashboardCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewDashboardCache creates a dashboard cache with the given entry TTL
func NewDashboardCache(redis *RedisClient, ttl time.Duration) *DashboardCache {
	return &DashboardCache{redis: redis, ttl: ttl}
}

// GetSummary returns the cached catalog summary, or false on miss
func (c *DashboardCache) GetSummary(ctx context.Context) (*database.CatalogSummary, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	var s database.CatalogSummary
	if err := c.redis.Get(ctx, summaryKey, &s); err != nil {
		return nil, false
	}
	return &s, true
}

// SetSummary caches the catalog summary
func (c *DashboardCache) SetSummary(ctx context.Context, s *database.CatalogSummary) {
	if c == nil || c.redis == nil {
		return
	}
	_ = c.redis.Set(ctx, summaryKey, s, c.ttl)
}

// GetSeries returns a cached chart series, or false on miss
func (c *DashboardCache) GetSeries(ctx context.Context, productID, kind string) ([]database.SeriesPoint, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	var points []database.SeriesPoint
	if err := c.redis.Get(ctx, fmt.Sprintf(seriesKeyFormat, productID, kind), &points); err != nil {
		return nil, false
	}
	return points, true
}

// SetSeries caches a chart series
func (c *DashboardCache) SetSeries(ctx context.Context, productID, kind string, points []database.SeriesPoint) {
	if c == nil || c.redis == nil {
		return
	}
	_ = c.redis.Set(ctx, fmt.Sprintf(seriesKeyFormat, productID, kind), points, c.ttl)
}

// InvalidateProduct drops the cached series for one product. Called after
// manual records or product updates touch that product's ledger.
func (c *DashboardCache) InvalidateProduct(ctx context.Context, productID string) {
	if c == nil || c.redis == nil {
		return
	}
	keys := []string{summaryKey}
	for _, kind := range []string{database.SeriesSales, database.SeriesPrice, database.SeriesInventory} {
		keys = append(keys, fmt.Sprintf(seriesKeyFormat, productID, kind))
	}
	_ = c.redis.Delete(ctx, keys...)
}

// InvalidateAll drops the summary and the series for the given products.
// A batch run rewrites every product, so the orchestrator calls this with
// the full snapshot.
func (c *DashboardCache) InvalidateAll(ctx context.Context, productIDs []string) {
	if c == nil || c.redis == nil {
		return
	}
	keys := []string{summaryKey}
	for _, id := range productIDs {
		for _, kind := range []string{database.SeriesSales, database.SeriesPrice, database.SeriesInventory} {
			keys = append(keys, fmt.Sprintf(seriesKeyFormat, id, kind))
		}
	}
	_ = c.redis.Delete(ctx, keys...)
}
