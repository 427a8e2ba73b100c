package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

// MemoryBaseStore 基于内置map实现的底层存储
// 并发安全，同时记录Get/Set调用次数，便于观察缓存对底层存储的访问
type MemoryBaseStore struct {
	data     map[string]string
	mutex    sync.RWMutex
	getCalls int64
	setCalls int64
}

// NewMemoryBaseStore 创建内存底层存储
func NewMemoryBaseStore() *MemoryBaseStore {
	return &MemoryBaseStore{
		data: make(map[string]string, 100),
	}
}

// Get 获取存储中的值，键不存在时返回ErrKeyNotFound
func (m *MemoryBaseStore) Get(ctx context.Context, key string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.getCalls++
	val, ok := m.data[key]
	if !ok {
		return "", fmt.Errorf("%w, key: %s", cache.ErrKeyNotFound, key)
	}
	return val, nil
}

// Set 存储键值对
func (m *MemoryBaseStore) Set(ctx context.Context, key string, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.setCalls++
	m.data[key] = value
	return nil
}

// Len 返回存储的键数量
func (m *MemoryBaseStore) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.data)
}

// GetCalls 返回Get调用次数
func (m *MemoryBaseStore) GetCalls() int64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.getCalls
}

// SetCalls 返回Set调用次数
func (m *MemoryBaseStore) SetCalls() int64 {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.setCalls
}
