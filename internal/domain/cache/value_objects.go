package cache

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaxKeyLength 缓存键的最大字节长度
	MaxKeyLength = 250
	// MaxValueLength 缓存值的最大字节长度
	MaxValueLength = 4096
)

var (
	// ErrInvalidCacheKey 无效的缓存键错误
	ErrInvalidCacheKey = errors.New("无效的缓存键")
	// ErrKeyTooLong 缓存键超长错误
	ErrKeyTooLong = errors.New("缓存键过长")
	// ErrValueTooLong 缓存值超长错误
	ErrValueTooLong = errors.New("缓存值过长")
	// ErrInvalidCapacity 无效的缓存容量错误
	ErrInvalidCapacity = errors.New("无效的缓存容量")
	// ErrKeyNotFound 键未找到错误
	ErrKeyNotFound = errors.New("键未找到")
	// ErrWriteBackFailed 写回底层存储失败错误
	ErrWriteBackFailed = errors.New("写回底层存储失败")
	// ErrFailedToRefreshCache 刷新缓存失败错误
	ErrFailedToRefreshCache = errors.New("刷新缓存失败")
)

// CacheKey 缓存键值对象
// 封装缓存键的长度限制和验证逻辑
type CacheKey struct {
	value string
}

// NewCacheKey 创建新的缓存键
// key: 键值字符串
// 返回: CacheKey实例和错误信息
func NewCacheKey(key string) (CacheKey, error) {
	if err := validateKey(key); err != nil {
		return CacheKey{}, err
	}
	return CacheKey{value: key}, nil
}

// String 返回缓存键的字符串表示
func (k CacheKey) String() string {
	return k.value
}

// IsEmpty 检查缓存键是否为空
func (k CacheKey) IsEmpty() bool {
	return k.value == ""
}

// Equals 比较两个缓存键是否相等
func (k CacheKey) Equals(other CacheKey) bool {
	return k.value == other.value
}

// validateKey 验证缓存键的有效性
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: 缓存键不能为空", ErrInvalidCacheKey)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: 长度 %d 超过上限 %d", ErrKeyTooLong, len(key), MaxKeyLength)
	}
	if strings.ContainsAny(key, "\r\n") {
		return fmt.Errorf("%w: 缓存键不能包含换行符", ErrInvalidCacheKey)
	}
	return nil
}

// CacheValue 缓存值值对象
// 封装缓存值的数据和脏标记
type CacheValue struct {
	data    string
	isDirty bool
}

// NewCacheValue 创建新的干净缓存值
// data: 要缓存的数据，长度不能超过 MaxValueLength
// 返回: CacheValue实例和错误信息
func NewCacheValue(data string) (CacheValue, error) {
	if err := ValidateValue(data); err != nil {
		return CacheValue{}, err
	}
	return CacheValue{data: data}, nil
}

// NewDirtyCacheValue 创建新的脏缓存值
// data: 要缓存的数据
// 返回: 标记为脏的CacheValue实例和错误信息
func NewDirtyCacheValue(data string) (CacheValue, error) {
	v, err := NewCacheValue(data)
	if err != nil {
		return CacheValue{}, err
	}
	return v.MarkDirty(), nil
}

// ValidateValue 验证缓存值长度
func ValidateValue(data string) error {
	if len(data) > MaxValueLength {
		return fmt.Errorf("%w: 长度 %d 超过上限 %d", ErrValueTooLong, len(data), MaxValueLength)
	}
	return nil
}

// Data 获取缓存值的数据
func (v CacheValue) Data() string {
	return v.data
}

// IsDirty 检查缓存值是否为脏数据
func (v CacheValue) IsDirty() bool {
	return v.isDirty
}

// MarkClean 标记缓存值为干净数据
func (v CacheValue) MarkClean() CacheValue {
	return CacheValue{data: v.data, isDirty: false}
}

// MarkDirty 标记缓存值为脏数据
func (v CacheValue) MarkDirty() CacheValue {
	return CacheValue{data: v.data, isDirty: true}
}

// Capacity 缓存容量值对象
// 构造后不可变，至少为1
type Capacity struct {
	slots int
}

// NewCapacity 创建缓存容量
// slots: 槽位数量，必须为正数
func NewCapacity(slots int) (Capacity, error) {
	if slots < 1 {
		return Capacity{}, fmt.Errorf("%w: 容量必须大于0，实际为 %d", ErrInvalidCapacity, slots)
	}
	return Capacity{slots: slots}, nil
}

// Int 返回槽位数量
func (c Capacity) Int() int {
	return c.slots
}

// CacheStats 缓存统计值对象
// 封装缓存的统计信息
type CacheStats struct {
	hits       int64
	misses     int64
	sets       int64
	loads      int64
	evictions  int64
	writeBacks int64
	flushes    int64
}

// NewCacheStats 创建新的缓存统计
func NewCacheStats() CacheStats {
	return CacheStats{}
}

// Hits 获取命中次数
func (s CacheStats) Hits() int64 {
	return s.hits
}

// Misses 获取未命中次数
func (s CacheStats) Misses() int64 {
	return s.misses
}

// Sets 获取设置次数
func (s CacheStats) Sets() int64 {
	return s.sets
}

// Loads 获取从底层存储读透加载的次数
func (s CacheStats) Loads() int64 {
	return s.loads
}

// Evictions 获取淘汰次数
func (s CacheStats) Evictions() int64 {
	return s.evictions
}

// WriteBacks 获取写回底层存储的次数
func (s CacheStats) WriteBacks() int64 {
	return s.writeBacks
}

// Flushes 获取刷新次数
func (s CacheStats) Flushes() int64 {
	return s.flushes
}

// HitRate 计算命中率
func (s CacheStats) HitRate() float64 {
	total := s.hits + s.misses
	if total == 0 {
		return 0
	}
	return float64(s.hits) / float64(total)
}

// IncrementHits 增加命中次数
func (s CacheStats) IncrementHits() CacheStats {
	s.hits++
	return s
}

// IncrementMisses 增加未命中次数
func (s CacheStats) IncrementMisses() CacheStats {
	s.misses++
	return s
}

// IncrementSets 增加设置次数
func (s CacheStats) IncrementSets() CacheStats {
	s.sets++
	return s
}

// IncrementLoads 增加读透加载次数
func (s CacheStats) IncrementLoads() CacheStats {
	s.loads++
	return s
}

// IncrementEvictions 增加淘汰次数
func (s CacheStats) IncrementEvictions() CacheStats {
	s.evictions++
	return s
}

// IncrementWriteBacks 增加写回次数
func (s CacheStats) IncrementWriteBacks() CacheStats {
	s.writeBacks++
	return s
}

// IncrementFlushes 增加刷新次数
func (s CacheStats) IncrementFlushes() CacheStats {
	s.flushes++
	return s
}
