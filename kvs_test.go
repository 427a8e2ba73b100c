package kvs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinwongcn/kvs/cache"
)

func TestGetVersion(t *testing.T) {
	version := GetVersion()
	assert.Equal(t, Version, version)
	assert.Equal(t, "1.0.0", version)
}

func TestNewCache(t *testing.T) {
	tests := []struct {
		name    string
		options []cache.Option
		wantErr bool
	}{
		{
			name:    "default config",
			options: nil,
			wantErr: false,
		},
		{
			name: "clock policy",
			options: []cache.Option{
				cache.WithPolicy("clock"),
				cache.WithCapacity(16),
			},
			wantErr: false,
		},
		{
			name: "unsynchronized fifo",
			options: []cache.Option{
				cache.WithPolicy("fifo"),
				cache.WithSynchronized(false),
			},
			wantErr: false,
		},
		{
			name:    "invalid policy",
			options: []cache.Option{cache.WithPolicy("random")},
			wantErr: true,
		},
		{
			name:    "invalid capacity",
			options: []cache.Option{cache.WithCapacity(-1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewCache(NewMemoryStore(), tt.options...)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, service)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, service)
		})
	}
}

func TestNewCacheWithConfig(t *testing.T) {
	config := cache.DefaultConfig()
	config.Policy = "clock"
	config.Capacity = 2

	service, err := NewCacheWithConfig(NewMemoryStore(), config)
	require.NoError(t, err)
	assert.Equal(t, "clock", service.Policy())
	assert.Equal(t, 2, service.Capacity())

	_, err = NewCacheWithConfig(NewMemoryStore(), nil)
	assert.Error(t, err)
}

func TestCacheInterface(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	service, err := NewCache(store, cache.WithCapacity(1))
	require.NoError(t, err)

	var c Cache = service
	var s Store = store

	require.NoError(t, c.Set(ctx, "a", "1"))
	require.NoError(t, c.Set(ctx, "b", "2"))

	// a被淘汰时写回
	val, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	require.NoError(t, c.Flush(ctx))
	val, err = s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2", val)
}

func TestNewFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kvs.aof")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	service, err := NewCache(store)
	require.NoError(t, err)

	require.NoError(t, service.Set(ctx, "k", "v"))
	require.NoError(t, service.Close(ctx))
	require.NoError(t, store.Close())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	defer reopened.Close()
	val, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

// staticStore 只读的自定义底层存储
type staticStore map[string]string

func (s staticStore) Get(ctx context.Context, key string) (string, error) {
	if v, ok := s[key]; ok {
		return v, nil
	}
	return "", cache.ErrKeyNotFound
}

func (s staticStore) Set(ctx context.Context, key string, value string) error {
	s[key] = value
	return nil
}

func TestNewCache_CustomStore(t *testing.T) {
	ctx := context.Background()
	var store Store = staticStore{"greeting": "hello"}

	service, err := NewCache(store, cache.WithCapacity(1))
	require.NoError(t, err)

	val, err := service.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", val)

	val, found, err := service.Lookup(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)

	require.NoError(t, service.Set(ctx, "k", "v"))
	require.NoError(t, service.Close(ctx))
	v, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
