package cache

import (
	"context"
	"fmt"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

// LRUCache 实现LRU淘汰策略的写回缓存
// 时间戳记录最后一次读或写的时间，淘汰时间戳最小的槽位
type LRUCache struct {
	stampedCache
}

// NewLRUCache 创建LRU写回缓存
// store: 底层存储
// capacity: 槽位数量，必须为正数
// 返回: LRUCache实例和错误信息
func NewLRUCache(store cache.BaseStore, capacity int) (*LRUCache, error) {
	s, err := newStampedCache(store, capacity)
	if err != nil {
		return nil, err
	}
	return &LRUCache{stampedCache: s}, nil
}

// Set 设置缓存值并标记为脏数据
// 更新已有键同样刷新其访问时间
func (l *LRUCache) Set(ctx context.Context, key string, value string) error {
	k, err := parseSet(key, value)
	if err != nil {
		return err
	}
	if err = l.set(ctx, k, value, true); err != nil {
		return err
	}
	l.stats = l.stats.IncrementSets()
	return nil
}

func (l *LRUCache) set(ctx context.Context, key cache.CacheKey, value string, dirty bool) error {
	now, err := l.clock.Tick()
	if err != nil {
		return err
	}

	if i := l.at().find(len(l.slots), key); i >= 0 {
		l.slots[i].Update(value, dirty)
		l.slots[i].stamp = now
		return nil
	}
	return l.place(ctx, key, value, dirty, now)
}

// Get 获取缓存值
// 无论是否命中都推进逻辑时钟，命中时刷新访问时间
// 未命中时从底层存储读透，并以干净状态放入缓存
func (l *LRUCache) Get(ctx context.Context, key string) (string, error) {
	k, err := cache.NewCacheKey(key)
	if err != nil {
		return "", err
	}
	now, err := l.clock.Tick()
	if err != nil {
		return "", err
	}
	if i := l.at().find(len(l.slots), k); i >= 0 {
		l.slots[i].stamp = now
		l.stats = l.stats.IncrementHits()
		return l.slots[i].Value().Data(), nil
	}

	val, found, err := l.load(ctx, k)
	if err != nil {
		return "", err
	}
	if !found {
		return "", notFound(k)
	}
	if err = l.set(ctx, k, val, false); err != nil {
		return val, fmt.Errorf("%w, 原因：%w", cache.ErrFailedToRefreshCache, err)
	}
	return val, nil
}

// Policy 返回淘汰策略类型
func (l *LRUCache) Policy() cache.Policy {
	return cache.PolicyLRU
}
