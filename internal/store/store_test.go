package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"heart-risk/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets expiry be tested without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
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

func newTestKV(maxEntries int) (*MemoryKV, *fakeClock, *metrics.Registry) {
	reg := metrics.NewRegistry()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	kv := NewMemoryKV(reg, maxEntries)
	kv.now = clock.Now
	return kv, clock, reg
}

func TestMemoryKV_GetSet(t *testing.T) {
	kv, _, reg := newTestKV(0)
	ctx := context.Background()

	t.Run("set and get existing key", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "key1", "hello", 0))

		val, err := kv.Get(ctx, "key1")
		require.NoError(t, err)
		assert.Equal(t, "hello", val)
	})

	t.Run("get non-existing key", func(t *testing.T) {
		_, err := kv.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("overwrite keeps key count", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "key1", "again", 0))

		val, err := kv.Get(ctx, "key1")
		require.NoError(t, err)
		assert.Equal(t, "again", val)
		assert.Equal(t, int64(1), reg.Value(metrics.CacheKeys))
	})
}

func TestMemoryKV_Delete(t *testing.T) {
	kv, _, reg := newTestKV(0)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "key1", "1", 0))
	require.NoError(t, kv.Delete(ctx, "key1"))
	require.NoError(t, kv.Delete(ctx, "key1"))

	_, err := kv.Get(ctx, "key1")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, int64(0), reg.Value(metrics.CacheKeys))
}

func TestMemoryKV_TTL(t *testing.T) {
	kv, clock, reg := newTestKV(0)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "short", "x", time.Minute))
	require.NoError(t, kv.Set(ctx, "forever", "y", 0))

	clock.Advance(59 * time.Second)
	_, err := kv.Get(ctx, "short")
	require.NoError(t, err)

	clock.Advance(2 * time.Second)
	_, err = kv.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrMiss)

	val, err := kv.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "y", val)

	assert.Equal(t, int64(1), reg.Value(metrics.CacheExpiredTotal))
	assert.Equal(t, int64(1), reg.Value(metrics.CacheKeys))
}

func TestMemoryKV_RemoveExpired(t *testing.T) {
	kv, clock, reg := newTestKV(0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, kv.Set(ctx, fmt.Sprintf("old-%d", i), "v", time.Second))
	}
	require.NoError(t, kv.Set(ctx, "fresh", "v", time.Hour))

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, kv.Len())

	assert.Equal(t, 5, kv.RemoveExpired())
	assert.Equal(t, 0, kv.RemoveExpired())
	assert.Equal(t, int64(5), reg.Value(metrics.CacheExpiredTotal))
	assert.Equal(t, int64(1), reg.Value(metrics.CacheKeys))
}

func TestMemoryKV_ConcurrentAccess(t *testing.T) {
	kv := NewMemoryKV(metrics.NewRegistry(), 10)
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k-%d", i%10)
			_ = kv.Set(ctx, key, "v", time.Minute)
			_, _ = kv.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, kv.Len())
}

/* ---- Entry cap ---- */

func TestMemoryKV_MaxEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts oldest insertion when full", func(t *testing.T) {
		kv, _, reg := newTestKV(3)
		for _, k := range []string{"a", "b", "c"} {
			require.NoError(t, kv.Set(ctx, k, k, time.Hour))
		}
		require.NoError(t, kv.Set(ctx, "d", "d", time.Hour))

		_, err := kv.Get(ctx, "a")
		assert.ErrorIs(t, err, ErrMiss)
		for _, k := range []string{"b", "c", "d"} {
			val, err := kv.Get(ctx, k)
			require.NoError(t, err)
			assert.Equal(t, k, val)
		}
		assert.Equal(t, 3, kv.Len())
		assert.Equal(t, int64(1), reg.Value(metrics.CacheEvictionsTotal))
		assert.Equal(t, int64(3), reg.Value(metrics.CacheKeys))
	})

	t.Run("overwrite refreshes insertion order without evicting", func(t *testing.T) {
		kv, _, reg := newTestKV(2)
		require.NoError(t, kv.Set(ctx, "a", "1", time.Hour))
		require.NoError(t, kv.Set(ctx, "b", "1", time.Hour))
		require.NoError(t, kv.Set(ctx, "a", "2", time.Hour))
		assert.Equal(t, int64(0), reg.Value(metrics.CacheEvictionsTotal))

		require.NoError(t, kv.Set(ctx, "c", "1", time.Hour))
		_, err := kv.Get(ctx, "b")
		assert.ErrorIs(t, err, ErrMiss)
		val, err := kv.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "2", val)
	})

	t.Run("expired entries are dropped before live ones", func(t *testing.T) {
		kv, clock, reg := newTestKV(2)
		require.NoError(t, kv.Set(ctx, "live", "v", time.Hour))
		require.NoError(t, kv.Set(ctx, "stale", "v", time.Second))
		clock.Advance(2 * time.Second)

		require.NoError(t, kv.Set(ctx, "new", "v", time.Hour))

		_, err := kv.Get(ctx, "live")
		assert.NoError(t, err)
		assert.Equal(t, int64(0), reg.Value(metrics.CacheEvictionsTotal))
		assert.Equal(t, int64(1), reg.Value(metrics.CacheExpiredTotal))
		assert.Equal(t, int64(2), reg.Value(metrics.CacheKeys))
	})

	t.Run("zero cap is unbounded", func(t *testing.T) {
		kv, _, reg := newTestKV(0)
		for i := 0; i < 50; i++ {
			require.NoError(t, kv.Set(ctx, fmt.Sprintf("k-%d", i), "v", time.Hour))
		}
		assert.Equal(t, 50, kv.Len())
		assert.Equal(t, int64(0), reg.Value(metrics.CacheEvictionsTotal))
	})
}
