package client

import (
	"strings"
	"sync"
	"time"
)

const DefaultCacheTTL = 30 * time.Second

// QueryCache holds short-lived query results by key. Mutations invalidate
// the keys they could affect so the next read refetches. Every Clear or
// Invalidate starts a new epoch; results fetched in an older epoch are
// never stored.
type QueryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	epoch   uint64
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

func NewQueryCache(ttl time.Duration) *QueryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &QueryCache{ttl: ttl, now: time.Now, entries: make(map[string]cacheEntry)}
}

func (c *QueryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *QueryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}

func (c *QueryCache) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// setIn stores value only if no Clear or Invalidate happened since epoch.
func (c *QueryCache) setIn(epoch uint64, key string, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
	return true
}

// Invalidate drops every key starting with prefix.
func (c *QueryCache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.entries = make(map[string]cacheEntry)
}

func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cached returns the value under key, calling fetch on a miss. A result
// that lands after the cache was cleared or invalidated is returned to the
// caller but not stored.
func cached[T any](c *QueryCache, key string, fetch func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	epoch := c.currentEpoch()
	v, err := fetch()
	if err != nil {
		return v, err
	}
	c.setIn(epoch, key, v)
	return v, nil
}

const (
	keyCampaigns    = "campaigns:"
	keyActive       = "campaigns:active"
	keyTestimonials = "testimonials:"
	keyFeatured     = "testimonials:featured"
	keyAdmin        = "admin:"
)

func campaignKey(id string) string          { return keyCampaigns + id }
func campaignDonationsKey(id string) string { return keyCampaigns + id + ":donations" }
