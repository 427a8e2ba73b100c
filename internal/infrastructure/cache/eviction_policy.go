package cache

import (
	"fmt"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

var (
	_ cache.WriteBackRepository = (*ClockCache)(nil)
	_ cache.WriteBackRepository = (*FIFOCache)(nil)
	_ cache.WriteBackRepository = (*LRUCache)(nil)
)

// LoggableRepository 可设置日志函数的写回缓存
type LoggableRepository interface {
	cache.WriteBackRepository
	SetLogFunc(logFunc func(format string, args ...any))
}

// NewRepository 按淘汰策略创建写回缓存
// policy: 淘汰策略
// store: 底层存储
// capacity: 槽位数量
// 返回: 写回缓存实例和错误信息
func NewRepository(policy cache.Policy, store cache.BaseStore, capacity int) (LoggableRepository, error) {
	var (
		repo LoggableRepository
		err  error
	)
	switch policy {
	case cache.PolicyClock:
		repo, err = NewClockCache(store, capacity)
	case cache.PolicyFIFO:
		repo, err = NewFIFOCache(store, capacity)
	case cache.PolicyLRU:
		repo, err = NewLRUCache(store, capacity)
	default:
		return nil, fmt.Errorf("%w: %q", cache.ErrInvalidPolicy, policy)
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}
