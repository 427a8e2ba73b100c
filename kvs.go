package kvs

import (
	"github.com/justinwongcn/kvs/cache"
)

// NewCache 创建写回缓存服务
// 这是创建缓存服务的便捷方法，使用默认配置
func NewCache(store Store, options ...cache.Option) (*cache.Service, error) {
	return cache.NewService(store, options...)
}

// NewCacheWithConfig 使用配置创建写回缓存服务
func NewCacheWithConfig(store Store, config *cache.Config) (*cache.Service, error) {
	return cache.NewServiceWithConfig(store, config)
}

// NewMemoryStore 创建内存底层存储
func NewMemoryStore() *cache.MemoryStore {
	return cache.NewMemoryStore()
}

// NewFileStore 打开或创建追加日志文件底层存储
func NewFileStore(path string) (*cache.FileStore, error) {
	return cache.NewFileStore(path)
}

// Version 返回 kvs 库的版本
const Version = "1.0.0"

// GetVersion 获取版本信息
func GetVersion() string {
	return Version
}
