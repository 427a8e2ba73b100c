package cache

import (
	"context"
	"sync"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

// SyncCache 为写回缓存加上互斥锁
// 每个操作作为一个原子单元执行，包括其间对底层存储的读写
type SyncCache struct {
	mu   sync.Mutex
	repo cache.WriteBackRepository
}

// NewSyncCache 包装写回缓存
func NewSyncCache(repo cache.WriteBackRepository) *SyncCache {
	return &SyncCache{repo: repo}
}

func (s *SyncCache) Set(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Set(ctx, key, value)
}

func (s *SyncCache) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Get(ctx, key)
}

func (s *SyncCache) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Flush(ctx)
}

func (s *SyncCache) Policy() cache.Policy {
	return s.repo.Policy()
}

func (s *SyncCache) Capacity() int {
	return s.repo.Capacity()
}

func (s *SyncCache) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Len()
}

func (s *SyncCache) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Contains(key)
}

func (s *SyncCache) DirtyKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.DirtyKeys()
}

func (s *SyncCache) Stats() cache.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Stats()
}

var _ cache.WriteBackRepository = (*SyncCache)(nil)
