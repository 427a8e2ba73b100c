package cache

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

func newTestLRU(t *testing.T, capacity int) (*LRUCache, *MockStore) {
	t.Helper()
	store := NewMockStore()
	l, err := NewLRUCache(store, capacity)
	require.NoError(t, err)
	return l, store
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLRU(t, 2)

	require.NoError(t, l.Set(ctx, "a", "1"))
	require.NoError(t, l.Set(ctx, "b", "2"))
	_, err := l.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, l.Set(ctx, "c", "3"))

	assert.True(t, l.Contains("a"))
	assert.False(t, l.Contains("b"))
	assert.True(t, l.Contains("c"))
	assert.Equal(t, []StoreCall{{Key: "b", Value: "2"}}, store.setCalls)
}

func TestLRUCache_SetRefreshesRecency(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLRU(t, 2)

	require.NoError(t, l.Set(ctx, "a", "1"))
	require.NoError(t, l.Set(ctx, "b", "2"))
	require.NoError(t, l.Set(ctx, "a", "10"))
	require.NoError(t, l.Set(ctx, "c", "3"))

	assert.Equal(t, []string{"a", "c"}, residentKeys(l))
	assert.Equal(t, []StoreCall{{Key: "b", Value: "2"}}, store.setCalls)
}

func TestLRUCache_ClockTicks(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLRU(t, 2)
	store.preload(t, map[string]string{"x": "9"})

	require.NoError(t, l.Set(ctx, "a", "1"))
	assert.Equal(t, uint64(2), l.clock.Now())

	// 命中推进时钟并刷新访问时间
	_, err := l.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), l.clock.Now())
	assert.Equal(t, []uint64{3, cache.EmptyTimestamp}, stamps(l.slots))

	// 键不存在时同样消耗一次时钟
	_, err = l.Get(ctx, "missing")
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)
	assert.Equal(t, uint64(4), l.clock.Now())

	// 读透：Get一次，插入一次
	_, err = l.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, uint64(6), l.clock.Now())
	assert.Equal(t, []uint64{3, 6}, stamps(l.slots))
}

func TestLRUCache_InvalidKeyDoesNotTick(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLRU(t, 1)

	_, err := l.Get(ctx, "")
	assert.ErrorIs(t, err, cache.ErrInvalidCacheKey)
	assert.Equal(t, uint64(1), l.clock.Now())
}

func TestLRUCache_ReadsKeepHotKeyResident(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLRU(t, 3)

	require.NoError(t, l.Set(ctx, "hot", "h"))
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		_, err := l.Get(ctx, "hot")
		require.NoError(t, err)
		require.NoError(t, l.Set(ctx, k, k))
	}

	assert.True(t, l.Contains("hot"))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"hot", "e", "d"}, residentKeys(l))
}

func TestLRUCache_ClockExhausted(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLRU(t, 2)
	store.preload(t, map[string]string{"x": "9"})
	require.NoError(t, l.Set(ctx, "a", "1"))
	l.clock = cache.NewLogicalClockAt(math.MaxUint64)
	before := stamps(l.slots)

	assert.ErrorIs(t, l.Set(ctx, "b", "2"), cache.ErrClockExhausted)
	assert.ErrorIs(t, l.Set(ctx, "a", "10"), cache.ErrClockExhausted)

	// 命中同样需要推进时钟
	_, err := l.Get(ctx, "a")
	assert.ErrorIs(t, err, cache.ErrClockExhausted)
	_, err = l.Get(ctx, "x")
	assert.ErrorIs(t, err, cache.ErrClockExhausted)

	assert.Equal(t, []string{"a"}, residentKeys(l))
	assert.Equal(t, before, stamps(l.slots))
	assert.Equal(t, []string{"a"}, l.DirtyKeys())
	assert.Equal(t, int64(1), l.Stats().Sets())
	assert.Equal(t, int64(0), l.Stats().Hits())
	assert.Empty(t, store.getKeys)

	val, err := l.Get(ctx, "a")
	require.Error(t, err)
	assert.Empty(t, val)

	// 时钟耗尽后仍可刷新写回
	require.NoError(t, l.Flush(ctx))
	v, ok := store.stored("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}
