package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCacheKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{name: "有效键", key: "user:1"},
		{name: "最大长度", key: strings.Repeat("k", MaxKeyLength)},
		{name: "空键", key: "", wantErr: ErrInvalidCacheKey},
		{name: "超长键", key: strings.Repeat("k", MaxKeyLength+1), wantErr: ErrKeyTooLong},
		{name: "包含换行符", key: "a\nb", wantErr: ErrInvalidCacheKey},
		{name: "包含回车符", key: "a\rb", wantErr: ErrInvalidCacheKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := NewCacheKey(tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, key.IsEmpty())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.key, key.String())
		})
	}
}

func TestCacheKey_Equals(t *testing.T) {
	a, err := NewCacheKey("a")
	require.NoError(t, err)
	a2, err := NewCacheKey("a")
	require.NoError(t, err)
	b, err := NewCacheKey("b")
	require.NoError(t, err)

	assert.True(t, a.Equals(a2))
	assert.False(t, a.Equals(b))
}

func TestNewCacheValue(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "空值有效", data: ""},
		{name: "普通值", data: "hello"},
		{name: "最大长度", data: strings.Repeat("v", MaxValueLength)},
		{name: "超长值", data: strings.Repeat("v", MaxValueLength+1), wantErr: ErrValueTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewCacheValue(tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.data, v.Data())
			assert.False(t, v.IsDirty())
		})
	}
}

func TestCacheValue_DirtyTransitions(t *testing.T) {
	v, err := NewDirtyCacheValue("x")
	require.NoError(t, err)
	assert.True(t, v.IsDirty())

	clean := v.MarkClean()
	assert.False(t, clean.IsDirty())
	assert.Equal(t, "x", clean.Data())
	// 值对象不可变
	assert.True(t, v.IsDirty())

	_, err = NewDirtyCacheValue(strings.Repeat("v", MaxValueLength+1))
	assert.ErrorIs(t, err, ErrValueTooLong)
}

func TestNewCapacity(t *testing.T) {
	c, err := NewCapacity(1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Int())

	_, err = NewCapacity(0)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = NewCapacity(-3)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestCacheStats(t *testing.T) {
	s := NewCacheStats()
	assert.Equal(t, 0.0, s.HitRate())

	s = s.IncrementHits().IncrementHits().IncrementHits().IncrementMisses()
	s = s.IncrementSets().IncrementLoads().IncrementEvictions().IncrementWriteBacks().IncrementFlushes()

	assert.Equal(t, int64(3), s.Hits())
	assert.Equal(t, int64(1), s.Misses())
	assert.Equal(t, 0.75, s.HitRate())
	assert.Equal(t, int64(1), s.Sets())
	assert.Equal(t, int64(1), s.Loads())
	assert.Equal(t, int64(1), s.Evictions())
	assert.Equal(t, int64(1), s.WriteBacks())
	assert.Equal(t, int64(1), s.Flushes())
}
