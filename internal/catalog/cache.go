// internal/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"switch-pipeline/internal/common/database"
	"switch-pipeline/internal/common/logger"
	"switch-pipeline/internal/common/metrics"
	"switch-pipeline/internal/models"
)

const redisSnapshotKey = "catalog:snapshot"

// Snapshot is an immutable view of the catalog collections taken at a point
// in time. Readers get the whole snapshot at once; a refresh never mutates
// slices a reader already holds.
type Snapshot struct {
	Names         []string  `json:"names"`
	Manufacturers []string  `json:"manufacturers"`
	Categories    []string  `json:"categories"`
	LoadedAt      time.Time `json:"loadedAt"`
	Source        string    `json:"source"`
}

// Cache keeps the catalog name collections in memory and refreshes them
// wholesale when the TTL lapses. A failed refresh falls back, in order, to
// the previous in-memory snapshot, the last snapshot persisted in Redis, and
// finally the built-in seed list. A usable catalog is always returned.
type Cache struct {
	store  Store
	redis  *database.RedisClient
	logger logger.Logger
	ttl    time.Duration

	snapshot  atomic.Pointer[Snapshot]
	refreshMu sync.Mutex
}

func NewCache(store Store, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		store:  store,
		redis:  redis,
		logger: log,
		ttl:    ttl,
	}
}

// Snapshot returns the current catalog view, refreshing first if the held
// snapshot is missing or older than the TTL. Concurrent callers during a
// refresh either perform the refresh or wait for it and read the result.
func (c *Cache) Snapshot(ctx context.Context) *Snapshot {
	if snap := c.snapshot.Load(); snap != nil && time.Since(snap.LoadedAt) < c.ttl {
		return snap
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another caller may have refreshed while this one waited on the lock.
	if snap := c.snapshot.Load(); snap != nil && time.Since(snap.LoadedAt) < c.ttl {
		return snap
	}

	return c.refreshLocked(ctx)
}

// Names returns the product names of the current snapshot in catalog order.
func (c *Cache) Names(ctx context.Context) []string {
	return c.Snapshot(ctx).Names
}

// Manufacturers returns the distinct manufacturer names of the current
// snapshot.
func (c *Cache) Manufacturers(ctx context.Context) []string {
	return c.Snapshot(ctx).Manufacturers
}

// Categories returns the distinct category names of the current snapshot.
func (c *Cache) Categories(ctx context.Context) []string {
	return c.Snapshot(ctx).Categories
}

// FindProductsMatchingText delegates to the store. Lookup failures degrade to
// an empty result instead of surfacing an error; callers treat a miss and an
// outage the same way.
func (c *Cache) FindProductsMatchingText(ctx context.Context, text string, limit int) []models.CatalogEntry {
	entries, err := c.store.FindProductsMatchingText(ctx, text, limit)
	if err != nil {
		c.logger.Warn("product text lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return entries
}

// LookupEntry finds the catalog entry with the given product name. It goes
// through the store's text matcher and keeps only an exact name hit, so
// callers can enrich an already resolved name with manufacturer and numeric
// attributes. Misses and lookup failures both return ok=false.
func (c *Cache) LookupEntry(ctx context.Context, name string) (models.CatalogEntry, bool) {
	for _, entry := range c.FindProductsMatchingText(ctx, name, 5) {
		if strings.EqualFold(entry.Name, name) {
			return entry, true
		}
	}
	return models.CatalogEntry{}, false
}

func (c *Cache) refreshLocked(ctx context.Context) *Snapshot {
	snap, err := c.loadFromStore(ctx)
	if err == nil && len(snap.Names) > 0 {
		c.snapshot.Store(snap)
		c.persistSnapshot(ctx, snap)
		metrics.CatalogRefreshes.WithLabelValues("success").Inc()
		c.logger.Info("catalog refreshed", map[string]interface{}{
			"names":         len(snap.Names),
			"manufacturers": len(snap.Manufacturers),
		})
		return snap
	}

	metrics.CatalogRefreshes.WithLabelValues("failure").Inc()
	if err != nil {
		c.logger.Warn("catalog refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		c.logger.Warn("catalog refresh returned no entries", nil)
	}

	// Keep serving the previous snapshot; re-stamp it so every miss does not
	// retry the store before the next TTL window.
	if prev := c.snapshot.Load(); prev != nil {
		stale := &Snapshot{
			Names:         prev.Names,
			Manufacturers: prev.Manufacturers,
			Categories:    prev.Categories,
			LoadedAt:      time.Now(),
			Source:        prev.Source,
		}
		c.snapshot.Store(stale)
		return stale
	}

	if snap := c.loadRedisSnapshot(ctx); snap != nil {
		c.snapshot.Store(snap)
		return snap
	}

	snap = seedSnapshot()
	c.snapshot.Store(snap)
	c.logger.Warn("serving built-in seed catalog", map[string]interface{}{
		"names": len(snap.Names),
	})
	return snap
}

func (c *Cache) loadFromStore(ctx context.Context) (*Snapshot, error) {
	names, err := c.store.ListAllProductNames(ctx)
	if err != nil {
		return nil, err
	}
	manufacturers, err := c.store.ListAllManufacturers(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := c.store.ListAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Names:         names,
		Manufacturers: manufacturers,
		Categories:    categories,
		LoadedAt:      time.Now(),
		Source:        "store",
	}, nil
}

func (c *Cache) persistSnapshot(ctx context.Context, snap *Snapshot) {
	if c.redis == nil {
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	// No expiration: the snapshot is a last-known-good copy, stale beats empty.
	if err := c.redis.Set(ctx, redisSnapshotKey, payload, 0); err != nil {
		c.logger.Warn("failed to persist catalog snapshot", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (c *Cache) loadRedisSnapshot(ctx context.Context) *Snapshot {
	if c.redis == nil {
		return nil
	}
	payload, err := c.redis.Get(ctx, redisSnapshotKey)
	if err != nil || payload == "" {
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		c.logger.Warn("failed to decode catalog snapshot from redis", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if len(snap.Names) == 0 {
		return nil
	}
	snap.LoadedAt = time.Now()
	snap.Source = "redis"
	c.logger.Info("restored catalog snapshot from redis", map[string]interface{}{
		"names": len(snap.Names),
	})
	return &snap
}
