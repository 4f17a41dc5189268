package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"sp500-dashboard/src/interfaces"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/metrics"
	"sp500-dashboard/src/models"
)

const CatalogKey = "catalog:sp500"

// CatalogCache memoizes the membership table under a constant key with a
// time-to-live. Concurrent misses share one upstream fetch.
type CatalogCache struct {
	store   interfaces.ICacheStore
	source  interfaces.ICatalogSource
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *logger.Logger

	loadMu    sync.Mutex
	hookMu    sync.RWMutex
	listeners []func(context.Context, *models.MCatalog)
}

// -----------------------------------------------------------------------------

func NewCatalogCache(store interfaces.ICacheStore, source interfaces.ICatalogSource, ttl time.Duration, m *metrics.Metrics) *CatalogCache {
	return &CatalogCache{
		store:   store,
		source:  source,
		ttl:     ttl,
		metrics: m,
		logger:  logger.NewLogger("CatalogCache"),
	}
}

// -----------------------------------------------------------------------------

// OnLoad registers fn to run after every upstream fetch.
func (c *CatalogCache) OnLoad(fn func(context.Context, *models.MCatalog)) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// -----------------------------------------------------------------------------

// Get returns the cached catalog, fetching it when absent or expired.
func (c *CatalogCache) Get(ctx context.Context) (*models.MCatalog, error) {
	if catalog, ok := c.lookup(ctx); ok {
		c.metrics.CatalogCacheResult("hit")
		return catalog, nil
	}

	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	// Another caller may have loaded it while we waited.
	if catalog, ok := c.lookup(ctx); ok {
		c.metrics.CatalogCacheResult("hit")
		return catalog, nil
	}
	c.metrics.CatalogCacheResult("miss")

	catalog, err := c.source.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(catalog); err != nil {
		c.logger.Error("Failed to encode catalog for cache: %v", err)
	} else if err := c.store.Set(ctx, CatalogKey, data, c.ttl); err != nil {
		c.metrics.CatalogCacheResult("error")
		c.logger.Warning("Failed to store catalog: %v", err)
	}

	c.hookMu.RLock()
	listeners := append([]func(context.Context, *models.MCatalog){}, c.listeners...)
	c.hookMu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, catalog)
	}

	return catalog, nil
}

// -----------------------------------------------------------------------------

// Invalidate drops the cached catalog so the next Get refetches it.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.store.Delete(ctx, CatalogKey); err != nil {
		return fmt.Errorf("failed to invalidate catalog: %w", err)
	}
	c.logger.Info("Catalog invalidated")
	return nil
}

// -----------------------------------------------------------------------------

// Refresh invalidates and reloads the catalog.
func (c *CatalogCache) Refresh(ctx context.Context) (*models.MCatalog, error) {
	if err := c.Invalidate(ctx); err != nil {
		return nil, err
	}
	return c.Get(ctx)
}

// -----------------------------------------------------------------------------

func (c *CatalogCache) lookup(ctx context.Context) (*models.MCatalog, bool) {
	data, ok, err := c.store.Get(ctx, CatalogKey)
	if err != nil {
		c.metrics.CatalogCacheResult("error")
		c.logger.Warning("Catalog cache read failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var catalog models.MCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		c.logger.Warning("Discarding undecodable cached catalog: %v", err)
		return nil, false
	}
	return &catalog, true
}
