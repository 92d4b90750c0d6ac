package gateway

import (
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// DefaultCacheTTL keeps upstream samples for a day; climate averages do
	// not move faster than that.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultMaxEntries bounds the in-memory cache. Oldest entries are
	// evicted first once the bound is hit.
	DefaultMaxEntries = 1000
)

// Cache is the gateway's bounded in-memory TTL cache. It wraps go-cache with
// an explicit capacity and oldest-insertion-first eviction, keyed by quantized
// coordinates so nearby repeated queries hit the same entry. Nothing survives
// a process restart.
type Cache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	order   []string // insertion order, oldest first
	backing *gocache.Cache
}

// NewCache builds a cache with the given TTL and capacity. Non-positive
// arguments fall back to the defaults.
func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		backing:    gocache.New(ttl, ttl/2),
	}
}

// QuantizeKey rounds coordinates to 3 decimal degrees (~111m) and prefixes the
// query type, so distinct providers never collide on the same point.
func QuantizeKey(tag string, lat, lng float64) string {
	return fmt.Sprintf("%s:%.3f,%.3f", tag, lat, lng)
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache) Get(key string) (any, bool) {
	v, found := c.backing.Get(key)
	if found {
		cacheHits.Inc()
	} else {
		cacheMisses.Inc()
	}
	return v, found
}

// Set stores value under key, evicting oldest entries when over capacity.
// Overwrites of the same key are idempotent by construction (same quantized
// key implies the same computed value), so no per-key locking is needed
// beyond the order bookkeeping. Re-setting a key, live or expired, moves it
// to the back of the eviction order; a key is tracked at most once.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, key)
	c.backing.SetDefault(key, value)

	// c.order is the authoritative bounded set; backing.ItemCount would also
	// count expired items the janitor has not swept yet.
	for len(c.order) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		c.backing.Delete(oldest)
		cacheEvictions.Inc()
	}
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.backing.ItemCount()
}
