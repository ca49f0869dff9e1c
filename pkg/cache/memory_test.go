package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type payload struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func TestMemoryCache_TTLBoundary(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache(WithMemoryTTL(60*time.Second), WithMemoryClock(clock.Now))
	require.NoError(t, c.Set(ctx, "quote:AAPL", payload{Symbol: "AAPL", Price: 190.5}))

	// Act + Assert: still valid one second before expiry
	clock.Advance(59 * time.Second)
	var got payload
	require.NoError(t, c.Get(ctx, "quote:AAPL", &got))
	assert.Equal(t, payload{Symbol: "AAPL", Price: 190.5}, got)

	// Act + Assert: gone one second after expiry, and evicted
	clock.Advance(2 * time.Second)
	err := c.Get(ctx, "quote:AAPL", &got)
	require.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_ExpiresExactlyAtTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache(WithMemoryTTL(30*time.Second), WithMemoryClock(clock.Now))
	require.NoError(t, c.Set(ctx, "k", "v"))

	clock.Advance(30 * time.Second)
	var got string
	require.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestMemoryCache_OverwriteResetsWriteTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache(WithMemoryTTL(10*time.Second), WithMemoryClock(clock.Now))
	require.NoError(t, c.Set(ctx, "k", 1))
	clock.Advance(8 * time.Second)
	require.NoError(t, c.Set(ctx, "k", 2))
	clock.Advance(8 * time.Second)

	var got int
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, 2, got)
}

func TestMemoryCache_ReturnedValuesAreIsolated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "list", []string{"a", "b"}))

	var first []string
	require.NoError(t, c.Get(ctx, "list", &first))
	first[0] = "mutated"

	var second []string
	require.NoError(t, c.Get(ctx, "list", &second))
	assert.Equal(t, []string{"a", "b"}, second)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemoryCache(WithMemoryMaxSize(2))
	require.NoError(t, c.Set(ctx, "a", 1))
	require.NoError(t, c.Set(ctx, "b", 2))

	var v int
	require.NoError(t, c.Get(ctx, "a", &v)) // b is now the LRU entry
	require.NoError(t, c.Set(ctx, "c", 3))

	assert.ErrorIs(t, c.Get(ctx, "b", &v), ErrCacheMiss)
	assert.NoError(t, c.Get(ctx, "a", &v))
	assert.NoError(t, c.Get(ctx, "c", &v))
}

func TestMGetTyped_SkipsMissingAndExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	c := NewMemoryCache(WithMemoryTTL(time.Minute), WithMemoryClock(clock.Now))
	require.NoError(t, c.Set(ctx, "old", payload{Symbol: "OLD"}))
	clock.Advance(45 * time.Second)
	require.NoError(t, c.Set(ctx, "new", payload{Symbol: "NEW"}))
	clock.Advance(30 * time.Second)

	got, err := MGetTyped[payload](ctx, c, "old", "new", "absent")
	require.NoError(t, err)
	assert.Equal(t, map[string]payload{"new": {Symbol: "NEW"}}, got)
}

func TestGetTyped_MissIsNotAnError(t *testing.T) {
	t.Parallel()

	v, ok, err := GetTyped[payload](context.Background(), NewMemoryCache(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewMemoryCache(WithMemoryMaxSize(50))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := GenerateKeyWithParams("k", i, j%64)
				_ = c.Set(ctx, key, j)
				var v int
				_ = c.Get(ctx, key, &v)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}

func TestLayeredCache_BackfillsL1FromL2(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l1 := NewMemoryCache()
	l2 := NewMemoryCache()
	lc := NewLayeredCache(l1, l2)

	require.NoError(t, l2.Set(ctx, "quote:MSFT", payload{Symbol: "MSFT", Price: 410}))

	var got payload
	require.NoError(t, lc.Get(ctx, "quote:MSFT", &got))
	assert.Equal(t, "MSFT", got.Symbol)

	var fromL1 payload
	require.NoError(t, l1.Get(ctx, "quote:MSFT", &fromL1))
	assert.Equal(t, got, fromL1)
}

func TestLayeredCache_WriteThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l1 := NewMemoryCache()
	l2 := NewMemoryCache()
	lc := NewLayeredCache(l1, l2)

	require.NoError(t, lc.Set(ctx, "k", payload{Symbol: "K"}))

	var a, b payload
	require.NoError(t, l1.Get(ctx, "k", &a))
	require.NoError(t, l2.Get(ctx, "k", &b))
	assert.Equal(t, a, b)

	got, err := lc.MGet(ctx, "k", "missing")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGenerateKeyWithParams(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "history:AAPL:1mo", GenerateKeyWithParams("history", "AAPL", "1mo"))
	assert.Equal(t, "naver:005930", GenerateKey("naver", "005930"))
}
