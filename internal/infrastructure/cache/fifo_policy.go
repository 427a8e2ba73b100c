package cache

import (
	"context"
	"fmt"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

// FIFOCache 实现FIFO淘汰策略的写回缓存
// 时间戳记录插入时间，更新已有键和读取都不改变淘汰顺序
type FIFOCache struct {
	stampedCache
}

// NewFIFOCache 创建FIFO写回缓存
// store: 底层存储
// capacity: 槽位数量，必须为正数
// 返回: FIFOCache实例和错误信息
func NewFIFOCache(store cache.BaseStore, capacity int) (*FIFOCache, error) {
	s, err := newStampedCache(store, capacity)
	if err != nil {
		return nil, err
	}
	return &FIFOCache{stampedCache: s}, nil
}

// Set 设置缓存值并标记为脏数据
func (f *FIFOCache) Set(ctx context.Context, key string, value string) error {
	k, err := parseSet(key, value)
	if err != nil {
		return err
	}
	if err = f.set(ctx, k, value, true); err != nil {
		return err
	}
	f.stats = f.stats.IncrementSets()
	return nil
}

func (f *FIFOCache) set(ctx context.Context, key cache.CacheKey, value string, dirty bool) error {
	now, err := f.clock.Tick()
	if err != nil {
		return err
	}

	// 已存在的键保留原插入时间（FIFO特性）
	if i := f.at().find(len(f.slots), key); i >= 0 {
		f.slots[i].Update(value, dirty)
		return nil
	}
	return f.place(ctx, key, value, dirty, now)
}

// Get 获取缓存值
// 命中不影响淘汰顺序；未命中时从底层存储读透，并以干净状态放入缓存
func (f *FIFOCache) Get(ctx context.Context, key string) (string, error) {
	k, err := cache.NewCacheKey(key)
	if err != nil {
		return "", err
	}
	if i := f.at().find(len(f.slots), k); i >= 0 {
		f.stats = f.stats.IncrementHits()
		return f.slots[i].Value().Data(), nil
	}

	val, found, err := f.load(ctx, k)
	if err != nil {
		return "", err
	}
	if !found {
		return "", notFound(k)
	}
	if err = f.set(ctx, k, val, false); err != nil {
		return val, fmt.Errorf("%w, 原因：%w", cache.ErrFailedToRefreshCache, err)
	}
	return val, nil
}

// Policy 返回淘汰策略类型
func (f *FIFOCache) Policy() cache.Policy {
	return cache.PolicyFIFO
}
