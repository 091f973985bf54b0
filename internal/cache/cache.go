// Package cache provides the keyed TTL memoized-fetch primitive every remote
// read in the companion is routed through.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTTL is how long a cached value stays fresh.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value    any
	storedAt time.Time
}

// Cache memoizes producer results per key with a fixed TTL. A fresh entry is
// returned without invoking the producer; a failed producer falls back to the
// last stored value for the key, however old, before surfacing the error.
// Overlapping fetches for one key are not coalesced: each races to completion
// and the last store wins, which is acceptable because producers are
// idempotent reads.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	log     logrus.FieldLogger

	now func() time.Time
}

// New builds a cache. A non-positive ttl selects DefaultTTL.
func New(ttl time.Duration, log logrus.FieldLogger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

// Fetch returns the cached value for key when fresh, otherwise invokes
// producer and stores its result. On producer failure any previously stored
// value for key, expired or not, is returned instead of the error; the error
// propagates only when there is nothing to fall back to.
func (c *Cache) Fetch(ctx context.Context, key string, producer func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	c.sweepLocked(key)
	prev, ok := c.entries[key]
	now := c.now()
	c.mu.Unlock()

	if ok && now.Sub(prev.storedAt) < c.ttl {
		return prev.value, nil
	}

	value, err := producer(ctx)
	if err != nil {
		if ok {
			c.log.WithError(err).WithField("key", key).Warn("fetch failed, serving stale cache entry")
			return prev.value, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{value: value, storedAt: c.now()}
	c.mu.Unlock()

	return value, nil
}

// Clear empties the cache unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// sweepLocked drops expired entries, keeping the entry under keep so the
// stale-fallback path in Fetch can still reach it.
func (c *Cache) sweepLocked(keep string) {
	now := c.now()
	for k, e := range c.entries {
		if k != keep && now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
		}
	}
}

// Fetch is the typed wrapper over Cache.Fetch for callers that know the
// concrete value type stored under key.
func Fetch[T any](ctx context.Context, c *Cache, key string, producer func(context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return producer(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		// A key collision across resource types; re-produce and replace the
		// colliding entry rather than returning a value of the wrong shape.
		fresh, err := producer(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		c.mu.Lock()
		c.entries[key] = entry{value: fresh, storedAt: c.now()}
		c.mu.Unlock()
		return fresh, nil
	}
	return typed, nil
}
