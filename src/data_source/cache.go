package datasource

import (
	"context"
	"strings"
	"sync"
	"time"

	"market-analyzer/src/interfaces"
	"market-analyzer/src/logger"
	"market-analyzer/src/metrics"
	"market-analyzer/src/models"

	"golang.org/x/sync/singleflight"
)

// Upper bound for an upstream fetch once it no longer follows the caller's ctx.
const sharedFetchTimeout = 2 * time.Minute

type cacheEntry struct {
	data    *models.MStockData
	expires time.Time
}

// CachedSource memoises another source per (symbol, period) for a fixed TTL.
// Concurrent misses for the same key share one upstream fetch. When
// MaxEntries is set, storing into a full cache evicts the entry closest to
// expiry.
type CachedSource struct {
	Source     interfaces.IDataSource
	TTL        time.Duration
	MaxEntries int
	Now        func() time.Time
	Logger     *logger.Logger

	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// -----------------------------------------------------------------------------

func NewCachedSource(source interfaces.IDataSource, ttl time.Duration, log *logger.Logger) *CachedSource {
	return &CachedSource{
		Source:  source,
		TTL:     ttl,
		Now:     time.Now,
		Logger:  log,
		entries: make(map[string]cacheEntry),
	}
}

// -----------------------------------------------------------------------------

func (c *CachedSource) Name() string {
	return c.Source.Name()
}

// -----------------------------------------------------------------------------

func cacheKey(symbol, period string) string {
	return strings.ToUpper(symbol) + "|" + period
}

// -----------------------------------------------------------------------------

// Fetch serves from the cache when a live entry exists. Errors are never
// cached. The shared upstream fetch does not follow any single caller's
// cancellation; each caller returns once its own ctx is done.
func (c *CachedSource) Fetch(ctx context.Context, symbol, period string) (*models.MStockData, error) {
	key := cacheKey(symbol, period)

	if data, ok := c.lookup(key); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return data, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		start := time.Now()
		data, err := c.Source.Fetch(fctx, symbol, period)
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.FetchDuration.WithLabelValues(c.Source.Name(), status).Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, err
		}
		c.store(key, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		c.Logger.Debug("caller for %s left before the shared fetch finished", key)
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.CacheLookups.WithLabelValues("shared").Inc()
		} else {
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.MStockData), nil
	}
}

// -----------------------------------------------------------------------------

func (c *CachedSource) lookup(key string) (*models.MStockData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !c.Now().Before(e.expires) {
		return nil, false
	}
	return e.data, true
}

// -----------------------------------------------------------------------------

func (c *CachedSource) store(key string, data *models.MStockData) {
	if c.TTL <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.MaxEntries > 0 && len(c.entries) >= c.MaxEntries {
		c.evictOldest()
	}
	c.entries[key] = cacheEntry{data: data, expires: c.Now().Add(c.TTL)}
	metrics.CacheEntries.Set(float64(len(c.entries)))
}

// evictOldest removes the entry that expires first. Callers hold mu.
func (c *CachedSource) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.expires.Before(oldest) {
			oldestKey, oldest = k, e.expires
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.Logger.Debug("Evicted %s from a full cache", oldestKey)
	}
}

// -----------------------------------------------------------------------------

// Purge drops expired entries and returns how many were removed.
func (c *CachedSource) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.Now()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			removed++
		}
	}
	metrics.CacheEntries.Set(float64(len(c.entries)))

	if removed > 0 {
		c.Logger.Debug("Purged %d expired cache entries, %d left", removed, len(c.entries))
	}
	return removed
}

// -----------------------------------------------------------------------------

// Len returns the number of stored entries, expired ones included.
func (c *CachedSource) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// -----------------------------------------------------------------------------

// Clear drops every entry and returns how many were removed.
func (c *CachedSource) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	metrics.CacheEntries.Set(0)
	return removed
}
