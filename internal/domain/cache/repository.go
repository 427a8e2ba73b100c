package cache

import (
	"context"
)

// BaseStore 定义底层持久化存储接口
// 缓存只依赖这两个操作，存储的内部实现与缓存无关
type BaseStore interface {
	// Get 获取存储中的值
	// ctx: 上下文
	// key: 键
	// 返回: 值和错误信息，键不存在时返回ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set 持久化存储键值对
	// ctx: 上下文
	// key: 键
	// value: 值
	// 返回: 操作错误
	Set(ctx context.Context, key string, value string) error
}

// Repository 定义缓存仓储接口
// CLOCK、FIFO、LRU 三种淘汰策略都实现该接口，各自独占槽位数组
// 实现不保证并发安全，多个goroutine共享时需要外部加锁
type Repository interface {
	// Set 设置缓存值并标记为脏数据
	// 缓存已满时按照淘汰策略选择牺牲者，脏的牺牲者先写回底层存储
	// ctx: 上下文
	// key: 缓存键
	// value: 缓存值
	// 返回: 操作错误
	Set(ctx context.Context, key string, value string) error

	// Get 获取缓存值
	// 未命中时从底层存储读透，找到的值以干净状态放入缓存
	// ctx: 上下文
	// key: 缓存键
	// 返回: 缓存值和错误信息，缓存和底层存储都不存在时返回ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Flush 将所有脏数据写回底层存储并清空缓存
	// ctx: 上下文
	// 返回: 操作错误
	Flush(ctx context.Context) error
}

// WriteBackRepository 定义写回缓存仓储接口
// 扩展基本的Repository接口，提供槽位状态的只读查询
type WriteBackRepository interface {
	Repository

	// Policy 返回淘汰策略类型
	Policy() Policy

	// Capacity 返回槽位数量
	Capacity() int

	// Len 返回当前被占用的槽位数量
	Len() int

	// Contains 检查键是否驻留在缓存中，不影响淘汰顺序
	Contains(key string) bool

	// DirtyKeys 返回所有脏数据键，按槽位顺序
	DirtyKeys() []string

	// Stats 返回缓存统计信息
	Stats() CacheStats
}
