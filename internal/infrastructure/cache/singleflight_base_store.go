package cache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

// SingleflightBaseStore 合并并发读的底层存储包装
// 多个缓存实例共享同一个慢速底层存储时，同一个键的并发读透只访问底层存储一次
// 写操作直接透传
type SingleflightBaseStore struct {
	cache.BaseStore
	g singleflight.Group
}

// NewSingleflightBaseStore 包装底层存储
func NewSingleflightBaseStore(store cache.BaseStore) *SingleflightBaseStore {
	return &SingleflightBaseStore{BaseStore: store}
}

// Get 使用single flight读取底层存储
// 并发请求共享同一次读取的结果和错误
func (s *SingleflightBaseStore) Get(ctx context.Context, key string) (string, error) {
	val, err, _ := s.g.Do(key, func() (any, error) {
		return s.BaseStore.Get(ctx, key)
	})
	if err != nil {
		return "", err
	}
	return val.(string), nil
}

// Set 写入底层存储后使该键的进行中读取失效
// 之后的Get会重新读取，不会拿到写入前的结果
func (s *SingleflightBaseStore) Set(ctx context.Context, key string, value string) error {
	err := s.BaseStore.Set(ctx, key, value)
	s.g.Forget(key)
	return err
}
