package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

// writeBack 实现三种淘汰策略共享的写回契约
// 写入时只更新缓存槽位，槽位被淘汰或刷新时才把脏数据写入底层存储
type writeBack struct {
	store   cache.BaseStore
	stats   cache.CacheStats
	logFunc func(format string, args ...any)
}

func newWriteBack(store cache.BaseStore) (writeBack, error) {
	if store == nil {
		return writeBack{}, errors.New("底层存储不能为空")
	}
	return writeBack{store: store, stats: cache.NewCacheStats()}, nil
}

// SetLogFunc 设置日志记录函数
// 参数:
//   - logFunc: 日志记录函数
//
// 功能:
//   - 读透加载、淘汰写回和刷新时输出日志
func (w *writeBack) SetLogFunc(logFunc func(format string, args ...any)) {
	w.logFunc = logFunc
}

// Stats 返回缓存统计信息
func (w *writeBack) Stats() cache.CacheStats {
	return w.stats
}

func (w *writeBack) logf(format string, args ...any) {
	if w.logFunc != nil {
		w.logFunc(format, args...)
	}
}

// evict 腾空槽位以便复用
// 脏数据先写回底层存储，写回失败时槽位保持原样
func (w *writeBack) evict(ctx context.Context, e *cache.Entry) error {
	if !e.IsOccupied() {
		return nil
	}
	if e.IsDirty() {
		if err := w.persist(ctx, e); err != nil {
			return err
		}
		w.logf("淘汰脏数据并写回，键：%s", e.Key())
	}
	w.stats = w.stats.IncrementEvictions()
	e.Vacate()
	return nil
}

// flushEntry 刷新单个槽位
// 脏数据写回后槽位被清空；干净数据直接清空
// 返回值表示槽位是否已被清空
func (w *writeBack) flushEntry(ctx context.Context, e *cache.Entry) (bool, error) {
	if !e.IsOccupied() {
		return false, nil
	}
	if e.IsDirty() {
		if err := w.persist(ctx, e); err != nil {
			return false, err
		}
	}
	e.Vacate()
	return true, nil
}

// finishFlush 汇总一次刷新的结果
func (w *writeBack) finishFlush(errs []error) error {
	w.stats = w.stats.IncrementFlushes()
	if len(errs) > 0 {
		w.logf("刷新过程中发生 %d 个错误", len(errs))
		return fmt.Errorf("刷新过程中发生 %d 个错误: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

func (w *writeBack) persist(ctx context.Context, e *cache.Entry) error {
	key := e.Key().String()
	if err := w.store.Set(ctx, key, e.Value().Data()); err != nil {
		return fmt.Errorf("%w, 键：%s, 原因：%w", cache.ErrWriteBackFailed, key, err)
	}
	e.MarkClean()
	w.stats = w.stats.IncrementWriteBacks()
	return nil
}

// load 缓存未命中时从底层存储读透
// 返回值found为false表示底层存储中也不存在该键
func (w *writeBack) load(ctx context.Context, key cache.CacheKey) (string, bool, error) {
	w.stats = w.stats.IncrementMisses()
	val, err := w.store.Get(ctx, key.String())
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("从底层存储读取键 %s 失败: %w", key, err)
	}
	if err = cache.ValidateValue(val); err != nil {
		return "", false, fmt.Errorf("底层存储返回的值无效，键：%s: %w", key, err)
	}
	w.stats = w.stats.IncrementLoads()
	w.logf("缓存未命中，从底层存储加载数据 key: %s", key)
	return val, true, nil
}

// parseSet 校验Set的输入
func parseSet(key, value string) (cache.CacheKey, error) {
	k, err := cache.NewCacheKey(key)
	if err != nil {
		return cache.CacheKey{}, err
	}
	if err = cache.ValidateValue(value); err != nil {
		return cache.CacheKey{}, err
	}
	return k, nil
}

func notFound(key cache.CacheKey) error {
	return fmt.Errorf("%w, key: %s", cache.ErrKeyNotFound, key)
}

// slotAt 按下标访问槽位中的Entry
type slotAt func(i int) *cache.Entry

// find 返回持有key的槽位下标，不存在时返回-1
func (at slotAt) find(n int, key cache.CacheKey) int {
	for i := 0; i < n; i++ {
		if at(i).Holds(key) {
			return i
		}
	}
	return -1
}

func (at slotAt) occupied(n int) int {
	count := 0
	for i := 0; i < n; i++ {
		if at(i).IsOccupied() {
			count++
		}
	}
	return count
}

func (at slotAt) dirtyKeys(n int) []string {
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if e := at(i); e.IsDirty() {
			keys = append(keys, e.Key().String())
		}
	}
	return keys
}

func (at slotAt) contains(n int, key string) bool {
	k, err := cache.NewCacheKey(key)
	if err != nil {
		return false
	}
	return at.find(n, k) >= 0
}
