package portfolio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"
)

// cacheEntry holds one computed metric and when it was fetched.
type cacheEntry struct {
	value     interface{}
	fetchedAt time.Time
}

// Cache is a read-through TTL cache for computed metrics, keyed by
// user + metric + parameters. A stale entry is served when recomputation
// fails, so a flaky upstream degrades to stale data instead of errors.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// CacheKey builds the deterministic key for a metric computation.
func CacheKey(userID uint, metric string, params ...string) string {
	key := fmt.Sprintf("u%d:%s", userID, metric)
	for _, param := range params {
		key += ":" + param
	}
	return key
}

// isStale is the freshness policy: an entry older than ttl needs recompute.
func (c *Cache) isStale(entry cacheEntry, ttl time.Duration) bool {
	return c.now().Sub(entry.fetchedAt) > ttl
}

// GetOrCompute returns the cached value when fresh, otherwise runs compute
// and caches the result. When compute fails and a stale entry exists, the
// stale value is returned instead of the error.
func (c *Cache) GetOrCompute(
	key string,
	ttl time.Duration,
	compute func() (interface{}, error),
) (interface{}, error) {

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && !c.isStale(entry, ttl) {
		return entry.value, nil
	}

	value, err := compute()
	if err != nil {
		if ok {
			logger.WithFields(map[string]interface{}{
				"component": "Cache",
				"key":       key,
			}).WithError(err).Warn("Recompute failed, serving stale value")
			return entry.value, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, fetchedAt: c.now()}
	c.mu.Unlock()

	return value, nil
}

// Invalidate drops one key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// RefreshFunc recomputes one registered metric.
type RefreshFunc func(ctx context.Context) error

// Refresher periodically recomputes registered metrics so consumers mostly
// hit warm cache. A failed refresh leaves the previous value in place.
type Refresher struct {
	cache    *Cache
	interval time.Duration

	mu    sync.Mutex
	tasks map[string]RefreshFunc
}

func NewRefresher(cache *Cache, interval time.Duration) *Refresher {
	return &Refresher{
		cache:    cache,
		interval: interval,
		tasks:    make(map[string]RefreshFunc),
	}
}

// Register adds a named refresh task. Registering the same name again
// replaces the task.
func (r *Refresher) Register(name string, task RefreshFunc) {
	r.mu.Lock()
	r.tasks[name] = task
	r.mu.Unlock()
}

// Run blocks, refreshing all registered tasks on a fixed interval until the
// context is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logger.WithField("interval", r.interval).Info("Metric refresher started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Metric refresher stopped")
			return nil

		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

func (r *Refresher) refreshAll(ctx context.Context) {
	runID := uuid.NewString()

	r.mu.Lock()
	tasks := make(map[string]RefreshFunc, len(r.tasks))
	for name, task := range r.tasks {
		tasks[name] = task
	}
	r.mu.Unlock()

	for name, task := range tasks {
		if err := task(ctx); err != nil {
			logger.WithFields(map[string]interface{}{
				"component": "Refresher",
				"run_id":    runID,
				"task":      name,
			}).WithError(err).Warn("Refresh failed, keeping stale value")
		}
	}

	logger.WithFields(map[string]interface{}{
		"component": "Refresher",
		"run_id":    runID,
		"tasks":     len(tasks),
	}).Debug("Refresh cycle complete")
}
