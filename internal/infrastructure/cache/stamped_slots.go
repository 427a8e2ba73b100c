package cache

import (
	"context"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

// stampedSlot FIFO/LRU策略的槽位，附带逻辑时间戳
// stamp为EmptyTimestamp表示槽位为空
type stampedSlot struct {
	cache.Entry
	stamp uint64
}

// stampedCache FIFO与LRU共享的槽位数组和逻辑时钟
// 两者只在何时刷新时间戳上有区别
type stampedCache struct {
	writeBack
	capacity cache.Capacity
	slots    []stampedSlot
	clock    *cache.LogicalClock
}

func newStampedCache(store cache.BaseStore, capacity int) (stampedCache, error) {
	c, err := cache.NewCapacity(capacity)
	if err != nil {
		return stampedCache{}, err
	}
	wb, err := newWriteBack(store)
	if err != nil {
		return stampedCache{}, err
	}
	return stampedCache{
		writeBack: wb,
		capacity:  c,
		slots:     make([]stampedSlot, c.Int()),
		clock:     cache.NewLogicalClock(),
	}, nil
}

// place 为新键选择槽位
// 优先使用空槽位；缓存已满时淘汰时间戳最小的槽位，脏数据先写回
func (s *stampedCache) place(ctx context.Context, key cache.CacheKey, value string, dirty bool, now uint64) error {
	i := s.vacancy()
	if i < 0 {
		i = s.oldest()
		if err := s.evict(ctx, &s.slots[i].Entry); err != nil {
			return err
		}
	}
	s.slots[i].Occupy(key, value, dirty)
	s.slots[i].stamp = now
	return nil
}

// vacancy 返回第一个空槽位的下标，没有时返回-1
func (s *stampedCache) vacancy() int {
	for i := range s.slots {
		if s.slots[i].stamp == cache.EmptyTimestamp {
			return i
		}
	}
	return -1
}

// oldest 返回时间戳最小的已占用槽位下标
// 时间戳相同时取扫描顺序中的第一个
func (s *stampedCache) oldest() int {
	victim := -1
	for i := range s.slots {
		if s.slots[i].stamp == cache.EmptyTimestamp {
			continue
		}
		if victim < 0 || s.slots[i].stamp < s.slots[victim].stamp {
			victim = i
		}
	}
	return victim
}

// Flush 将所有脏数据写回底层存储并清空全部槽位
// 写回失败的槽位保持驻留和脏状态
func (s *stampedCache) Flush(ctx context.Context) error {
	var errs []error
	for i := range s.slots {
		vacated, err := s.flushEntry(ctx, &s.slots[i].Entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if vacated {
			s.slots[i].stamp = cache.EmptyTimestamp
		}
	}
	return s.finishFlush(errs)
}

// Capacity 返回槽位数量
func (s *stampedCache) Capacity() int {
	return s.capacity.Int()
}

// Len 返回当前被占用的槽位数量
func (s *stampedCache) Len() int {
	return s.at().occupied(len(s.slots))
}

// Contains 检查键是否驻留在缓存中，不影响时间戳
func (s *stampedCache) Contains(key string) bool {
	return s.at().contains(len(s.slots), key)
}

// DirtyKeys 返回所有脏数据键
func (s *stampedCache) DirtyKeys() []string {
	return s.at().dirtyKeys(len(s.slots))
}

func (s *stampedCache) at() slotAt {
	return func(i int) *cache.Entry { return &s.slots[i].Entry }
}
