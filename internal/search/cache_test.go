package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptowatch/internal/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(capacity int, ttl time.Duration) (*ResultCache, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c := NewResultCache(capacity, ttl)
	c.now = clock.now
	return c, clock
}

func page(symbol string) []Result {
	return []Result{{Asset: models.Asset{Symbol: symbol}}}
}

func TestResultCache_SetGet(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", page("BTCUSDT"))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, page("BTCUSDT"), got)
	assert.Equal(t, 1, c.Len())
}

func TestResultCache_ExpiresAndEvictsOnGet(t *testing.T) {
	c, clock := newTestCache(10, 2*time.Minute)

	c.Set("k", page("BTCUSDT"))
	clock.advance(2 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry at exactly the TTL is still fresh")

	clock.advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)

	c.Set("a", page("A"))
	c.Set("b", page("B"))
	_, ok := c.Get("a") // a becomes most recently used
	require.True(t, ok)
	c.Set("c", page("C"))

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestResultCache_Clear(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	c.Set("a", page("A"))
	c.Set("b", page("B"))

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestResultCache_Defaults(t *testing.T) {
	c := NewResultCache(0, 0)
	assert.Equal(t, DefaultCacheTTL, c.ttl)
	for i := 0; i < DefaultCacheCapacity+5; i++ {
		c.Set(CacheKey("q", i, 0, models.QuoteUSDT), nil)
	}
	assert.Equal(t, DefaultCacheCapacity, c.Len())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "btc-20-0-USDT", CacheKey("btc", 20, 0, models.QuoteUSDT))
	assert.Equal(t, CacheKey("btc", 20, 0, models.QuoteUSDT), CacheKey("btc", 20, 0, models.QuoteUSDT))
	assert.NotEqual(t, CacheKey("btc", 20, 0, models.QuoteUSDT), CacheKey("BTC", 20, 0, models.QuoteUSDT))
	assert.NotEqual(t, CacheKey("btc-1", 2, 0, models.QuoteUSD), CacheKey("btc", 12, 0, models.QuoteUSD))
}

func TestResultCache_IndexStamp(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	older := BuildIndex(nil, time.Unix(1, 0))
	newer := BuildIndex(nil, time.Unix(2, 0))

	c.setFor("k", page("BTCUSDT"), older)
	_, ok := c.getFor("k", older)
	assert.True(t, ok)

	_, ok = c.getFor("k", newer)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "mismatched page is evicted")
}
