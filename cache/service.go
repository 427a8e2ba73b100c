package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appCache "github.com/justinwongcn/kvs/internal/application/cache"
	domainCache "github.com/justinwongcn/kvs/internal/domain/cache"
	infraCache "github.com/justinwongcn/kvs/internal/infrastructure/cache"
)

// BaseStore 底层持久化存储接口
// Get在键不存在时必须返回包装了ErrKeyNotFound的错误
type BaseStore = domainCache.BaseStore

// MemoryStore 内存底层存储
type MemoryStore = infraCache.MemoryBaseStore

// FileStore 追加日志文件底层存储
type FileStore = infraCache.FileBaseStore

var (
	// ErrKeyNotFound 键在缓存和底层存储中都不存在
	ErrKeyNotFound = domainCache.ErrKeyNotFound
	// ErrInvalidCacheKey 无效的缓存键
	ErrInvalidCacheKey = domainCache.ErrInvalidCacheKey
	// ErrKeyTooLong 缓存键超过MaxKeyLength
	ErrKeyTooLong = domainCache.ErrKeyTooLong
	// ErrValueTooLong 缓存值超过MaxValueLength
	ErrValueTooLong = domainCache.ErrValueTooLong
	// ErrInvalidCapacity 无效的缓存容量
	ErrInvalidCapacity = domainCache.ErrInvalidCapacity
	// ErrInvalidPolicy 无效的淘汰策略
	ErrInvalidPolicy = domainCache.ErrInvalidPolicy
	// ErrWriteBackFailed 写回底层存储失败
	ErrWriteBackFailed = domainCache.ErrWriteBackFailed
	// ErrClockExhausted 逻辑时钟耗尽
	ErrClockExhausted = domainCache.ErrClockExhausted
	// ErrStoreClosed 底层存储已关闭
	ErrStoreClosed = infraCache.ErrStoreClosed
)

const (
	// MaxKeyLength 缓存键的最大字节长度
	MaxKeyLength = domainCache.MaxKeyLength
	// MaxValueLength 缓存值的最大字节长度
	MaxValueLength = domainCache.MaxValueLength
)

// Config 缓存配置
type Config struct {
	// Name 缓存实例名称，为空时自动生成
	Name string

	// Policy 淘汰策略 ("clock", "fifo", "lru")
	Policy string

	// Capacity 槽位数量
	Capacity int

	// Logger 日志记录器，为空时使用logrus标准日志
	Logger *logrus.Logger

	// Synchronized 是否为每个操作加互斥锁
	Synchronized bool
}

// DefaultConfig 返回默认缓存配置
func DefaultConfig() *Config {
	return &Config{
		Policy:       "lru",
		Capacity:     128,
		Synchronized: true,
	}
}

// Option 缓存选项函数
type Option func(*Config)

// WithName 设置缓存实例名称
func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

// WithPolicy 设置淘汰策略
func WithPolicy(policy string) Option {
	return func(c *Config) {
		c.Policy = policy
	}
}

// WithCapacity 设置槽位数量
func WithCapacity(capacity int) Option {
	return func(c *Config) {
		c.Capacity = capacity
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithSynchronized 设置是否加互斥锁
func WithSynchronized(enable bool) Option {
	return func(c *Config) {
		c.Synchronized = enable
	}
}

// Service 写回缓存服务公共接口
// 未调用Flush或Close就丢弃Service会丢失尚未写回的脏数据
type Service struct {
	name       string
	repo       domainCache.WriteBackRepository
	appService *appCache.ApplicationService
	logger     *logrus.Entry
}

// NewService 创建缓存服务
// 使用默认配置创建缓存服务实例
func NewService(store BaseStore, options ...Option) (*Service, error) {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}

	return NewServiceWithConfig(store, config)
}

// NewServiceWithConfig 使用配置创建缓存服务
func NewServiceWithConfig(store BaseStore, config *Config) (*Service, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if store == nil {
		return nil, fmt.Errorf("底层存储不能为空")
	}

	policy, err := domainCache.ParsePolicy(config.Policy)
	if err != nil {
		return nil, err
	}

	name := config.Name
	if name == "" {
		name = uuid.New().String()
	}
	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	entry := logger.WithFields(logrus.Fields{
		"cache":  name,
		"policy": policy.String(),
	})

	// 创建基础设施层
	repo, err := infraCache.NewRepository(policy, store, config.Capacity)
	if err != nil {
		return nil, err
	}
	repo.SetLogFunc(entry.Debugf)

	var repository domainCache.WriteBackRepository = repo
	if config.Synchronized {
		repository = infraCache.NewSyncCache(repo)
	}

	return &Service{
		name:       name,
		repo:       repository,
		appService: appCache.NewApplicationService(repository),
		logger:     entry,
	}, nil
}

// Set 设置缓存值并标记为脏数据
func (s *Service) Set(ctx context.Context, key string, value string) error {
	cmd := appCache.CacheItemCommand{
		Key:   key,
		Value: value,
	}
	return s.appService.SetCacheItem(ctx, cmd)
}

// Get 获取缓存值
// 键在缓存和底层存储中都不存在时返回空字符串，不返回错误
// 需要区分空值和不存在时使用Lookup
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	value, _, err := s.Lookup(ctx, key)
	return value, err
}

// Lookup 获取缓存值并返回是否存在
func (s *Service) Lookup(ctx context.Context, key string) (string, bool, error) {
	query := appCache.CacheItemQuery{Key: key}

	result, err := s.appService.GetCacheItem(ctx, query)
	if err != nil {
		if result != nil {
			s.logger.WithError(err).Warnf("读透值未能放入缓存，键：%s", key)
			return result.Value, result.Found, nil
		}
		return "", false, err
	}
	return result.Value, result.Found, nil
}

// Flush 将所有脏数据写回底层存储并清空缓存
func (s *Service) Flush(ctx context.Context) error {
	err := s.appService.FlushDirtyData(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("刷新脏数据失败")
	}
	return err
}

// Close 释放缓存前刷新所有脏数据
// 刷新失败时返回错误，未写回的数据仍留在缓存中，可以重试
func (s *Service) Close(ctx context.Context) error {
	if err := s.Flush(ctx); err != nil {
		return fmt.Errorf("关闭缓存失败: %w", err)
	}
	s.logger.Debug("缓存已关闭")
	return nil
}

// Stats 获取缓存统计信息
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	result, err := s.appService.GetCacheStats(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Name:       s.name,
		Policy:     result.Policy,
		Capacity:   result.Capacity,
		ItemCount:  result.Size,
		HitCount:   result.Hits,
		MissCount:  result.Misses,
		HitRate:    result.HitRate,
		SetCount:   result.Sets,
		LoadCount:  result.Loads,
		Evictions:  result.Evictions,
		WriteBacks: result.WriteBacks,
		Flushes:    result.Flushes,
		DirtyKeys:  result.DirtyKeys,
	}, nil
}

// Name 返回缓存实例名称
func (s *Service) Name() string {
	return s.name
}

// Policy 返回淘汰策略名称
func (s *Service) Policy() string {
	return s.repo.Policy().String()
}

// Capacity 返回槽位数量
func (s *Service) Capacity() int {
	return s.repo.Capacity()
}

// Stats 缓存统计信息
type Stats struct {
	Name       string   `json:"name"`
	Policy     string   `json:"policy"`
	Capacity   int      `json:"capacity"`
	ItemCount  int      `json:"item_count"`
	HitCount   int64    `json:"hit_count"`
	MissCount  int64    `json:"miss_count"`
	HitRate    float64  `json:"hit_rate"`
	SetCount   int64    `json:"set_count"`
	LoadCount  int64    `json:"load_count"`
	Evictions  int64    `json:"evictions"`
	WriteBacks int64    `json:"write_backs"`
	Flushes    int64    `json:"flushes"`
	DirtyKeys  []string `json:"dirty_keys"`
}

// NewMemoryStore 创建内存底层存储
func NewMemoryStore() *MemoryStore {
	return infraCache.NewMemoryBaseStore()
}

// NewFileStore 打开或创建追加日志文件底层存储
func NewFileStore(path string) (*FileStore, error) {
	return infraCache.NewFileBaseStore(path)
}

// NewSingleflightStore 包装底层存储，合并同一键的并发读取
// 适用于多个缓存实例共享同一个底层存储的场景
func NewSingleflightStore(store BaseStore) BaseStore {
	return infraCache.NewSingleflightBaseStore(store)
}

// IsNotFound 判断错误是否表示键不存在
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}
