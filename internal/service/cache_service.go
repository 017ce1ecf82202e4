package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
)

const dashboardCacheKey = "pembinaan:dashboard:stats"

type cacheStore interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// DashboardCache keeps the dashboard aggregate snapshot in Redis. Cache
// failures are logged and treated as misses so the dashboard stays up
// when Redis is down.
type DashboardCache struct {
	store   cacheStore
	enabled bool
	ttl     time.Duration
	logger  *zap.Logger
}

// NewDashboardCache builds a DashboardCache. A nil store disables caching.
func NewDashboardCache(store cacheStore, enabled bool, ttl time.Duration, logger *zap.Logger) *DashboardCache {
	return &DashboardCache{store: store, enabled: enabled && store != nil, ttl: ttl, logger: logger}
}

// Get returns the cached snapshot, or false on miss.
func (c *DashboardCache) Get(ctx context.Context) (*dto.DashboardStats, bool) {
	if !c.enabled {
		return nil, false
	}
	var stats dto.DashboardStats
	err := c.store.GetJSON(ctx, dashboardCacheKey, &stats)
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			c.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil, false
	}
	dashboardCacheHits.Inc()
	return &stats, true
}

// Set stores the snapshot for the configured TTL.
func (c *DashboardCache) Set(ctx context.Context, stats *dto.DashboardStats) {
	if !c.enabled || stats == nil {
		return
	}
	if err := c.store.SetJSON(ctx, dashboardCacheKey, stats, c.ttl); err != nil {
		c.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached snapshot after data mutations.
func (c *DashboardCache) Invalidate(ctx context.Context) {
	if !c.enabled {
		return
	}
	if err := c.store.Delete(ctx, dashboardCacheKey); err != nil {
		c.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
