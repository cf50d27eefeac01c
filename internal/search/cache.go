package search

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"

	"cryptowatch/internal/models"
)

// Result cache defaults.
const (
	DefaultCacheCapacity = 100
	DefaultCacheTTL      = 2 * time.Minute
)

type cacheEntry struct {
	results  []Result
	storedAt time.Time
	index    *Index // snapshot the page was ranked against, nil when unknown
}

// ResultCache is a bounded LRU of ranked result pages with a per-entry TTL.
// It is safe for concurrent use.
type ResultCache struct {
	mu  sync.Mutex
	lru *simplelru.LRU[string, cacheEntry]
	ttl time.Duration
	now func() time.Time // overridable for tests
}

// NewResultCache creates a cache holding at most capacity entries for ttl.
// Non-positive arguments fall back to the defaults.
func NewResultCache(capacity int, ttl time.Duration) *ResultCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	// NewLRU only fails for a non-positive size.
	lru, _ := simplelru.NewLRU[string, cacheEntry](capacity, nil)
	return &ResultCache{lru: lru, ttl: ttl, now: time.Now}
}

// Get returns the cached page for key and marks it most recently used. An
// expired entry is removed and reported as a miss.
func (c *ResultCache) Get(key string) ([]Result, bool) {
	return c.getFor(key, nil)
}

// Set stores results under key, evicting the least recently used entry when
// the cache is full.
func (c *ResultCache) Set(key string, results []Result) {
	c.setFor(key, results, nil)
}

// getFor is Get that also treats a page ranked against an index other than
// idx as expired. A nil idx accepts any page.
func (c *ResultCache) getFor(key string, idx *Index) ([]Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Peek(key)
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl || (idx != nil && entry.index != idx) {
		c.lru.Remove(key)
		return nil, false
	}
	c.lru.Get(key)
	return entry.results, true
}

func (c *ResultCache) setFor(key string, results []Result, idx *Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, cacheEntry{results: results, storedAt: c.now(), index: idx})
}

// Clear drops every entry.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Len returns the number of entries, expired ones included.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// CacheKey joins the request parameters into a cache key. The raw query
// goes first so the numeric fields can be read back from the right.
func CacheKey(query string, limit, offset int, quote models.QuoteCurrency) string {
	return fmt.Sprintf("%s-%d-%d-%s", query, limit, offset, quote)
}
