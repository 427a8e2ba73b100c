package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Lifecycle(t *testing.T) {
	key, err := NewCacheKey("k")
	require.NoError(t, err)
	other, err := NewCacheKey("other")
	require.NoError(t, err)

	var e Entry
	assert.False(t, e.IsOccupied())
	assert.False(t, e.IsDirty())
	assert.False(t, e.Holds(key))

	e.Occupy(key, "v1", true)
	assert.True(t, e.IsOccupied())
	assert.True(t, e.IsDirty())
	assert.True(t, e.Holds(key))
	assert.False(t, e.Holds(other))
	assert.Equal(t, "v1", e.Value().Data())

	e.MarkClean()
	assert.False(t, e.IsDirty())

	// 干净更新不会把槽位标记为脏
	e.Update("v2", false)
	assert.False(t, e.IsDirty())
	assert.Equal(t, "v2", e.Value().Data())

	e.Update("v3", true)
	assert.True(t, e.IsDirty())

	// 干净更新保留已有的脏标记
	e.Update("v4", false)
	assert.True(t, e.IsDirty())

	e.Vacate()
	assert.False(t, e.IsOccupied())
	assert.False(t, e.IsDirty())
	assert.False(t, e.Holds(key))
}
