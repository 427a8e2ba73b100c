package kvs

import (
	"context"
)

// Cache 定义写回缓存接口
// 提供基本的缓存操作：设置、获取和刷新
type Cache interface {
	// Set 设置缓存值并标记为脏数据
	// key: 缓存键
	// value: 缓存值
	Set(ctx context.Context, key string, value string) error

	// Get 获取缓存值
	// key: 缓存键
	// 返回: 缓存值和错误信息，键不存在时返回空字符串
	Get(ctx context.Context, key string) (string, error)

	// Flush 将脏数据写回底层存储
	Flush(ctx context.Context) error
}

// Store 定义底层存储接口
// Get在键不存在时返回包装了cache.ErrKeyNotFound的错误
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}
