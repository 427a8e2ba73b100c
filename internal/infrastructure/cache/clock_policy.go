package cache

import (
	"context"
	"fmt"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

// clockSlot CLOCK策略的槽位，附带引用位
type clockSlot struct {
	cache.Entry
	referenced bool
}

// ClockCache 实现CLOCK（二次机会）淘汰策略的写回缓存
// 槽位组成环形数组，hand指向下一个淘汰候选
// 只有Set会设置引用位，Get命中不会
type ClockCache struct {
	writeBack
	capacity cache.Capacity
	slots    []clockSlot
	hand     int
}

// NewClockCache 创建CLOCK写回缓存
// store: 底层存储
// capacity: 槽位数量，必须为正数
// 返回: ClockCache实例和错误信息
func NewClockCache(store cache.BaseStore, capacity int) (*ClockCache, error) {
	c, err := cache.NewCapacity(capacity)
	if err != nil {
		return nil, err
	}
	wb, err := newWriteBack(store)
	if err != nil {
		return nil, err
	}
	return &ClockCache{
		writeBack: wb,
		capacity:  c,
		slots:     make([]clockSlot, c.Int()),
	}, nil
}

// Set 设置缓存值并标记为脏数据
// 每次都先转动时钟指针，再查找键是否已存在
func (c *ClockCache) Set(ctx context.Context, key string, value string) error {
	k, err := parseSet(key, value)
	if err != nil {
		return err
	}
	if err = c.set(ctx, k, value, true); err != nil {
		return err
	}
	c.stats = c.stats.IncrementSets()
	return nil
}

func (c *ClockCache) set(ctx context.Context, key cache.CacheKey, value string, dirty bool) error {
	// 指针停下时的槽位就是淘汰候选，清除的引用位即使键已存在也不恢复
	c.sweep()

	if i := c.at().find(len(c.slots), key); i >= 0 {
		c.slots[i].Update(value, dirty)
		c.slots[i].referenced = true
		return nil
	}

	victim := &c.slots[c.hand]
	if err := c.evict(ctx, &victim.Entry); err != nil {
		return err
	}
	victim.Occupy(key, value, dirty)
	victim.referenced = true
	return nil
}

// sweep 转动指针直到遇到引用位为0的槽位
// 经过的槽位引用位被清零，最多转一圈
func (c *ClockCache) sweep() {
	for c.slots[c.hand].referenced {
		c.slots[c.hand].referenced = false
		c.hand = (c.hand + 1) % len(c.slots)
	}
}

// Get 获取缓存值
// 命中时不设置引用位；未命中时从底层存储读透，并以干净状态放入缓存
func (c *ClockCache) Get(ctx context.Context, key string) (string, error) {
	k, err := cache.NewCacheKey(key)
	if err != nil {
		return "", err
	}
	if i := c.at().find(len(c.slots), k); i >= 0 {
		c.stats = c.stats.IncrementHits()
		return c.slots[i].Value().Data(), nil
	}

	val, found, err := c.load(ctx, k)
	if err != nil {
		return "", err
	}
	if !found {
		return "", notFound(k)
	}
	if err = c.set(ctx, k, val, false); err != nil {
		return val, fmt.Errorf("%w, 原因：%w", cache.ErrFailedToRefreshCache, err)
	}
	return val, nil
}

// Flush 将所有脏数据写回底层存储并清空全部槽位
// 写回失败的槽位保持驻留和脏状态
func (c *ClockCache) Flush(ctx context.Context) error {
	var errs []error
	for i := range c.slots {
		vacated, err := c.flushEntry(ctx, &c.slots[i].Entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if vacated {
			c.slots[i].referenced = false
		}
	}
	return c.finishFlush(errs)
}

// Policy 返回淘汰策略类型
func (c *ClockCache) Policy() cache.Policy {
	return cache.PolicyClock
}

// Capacity 返回槽位数量
func (c *ClockCache) Capacity() int {
	return c.capacity.Int()
}

// Len 返回当前被占用的槽位数量
func (c *ClockCache) Len() int {
	return c.at().occupied(len(c.slots))
}

// Contains 检查键是否驻留在缓存中，不影响引用位
func (c *ClockCache) Contains(key string) bool {
	return c.at().contains(len(c.slots), key)
}

// DirtyKeys 返回所有脏数据键
func (c *ClockCache) DirtyKeys() []string {
	return c.at().dirtyKeys(len(c.slots))
}

func (c *ClockCache) at() slotAt {
	return func(i int) *cache.Entry { return &c.slots[i].Entry }
}
