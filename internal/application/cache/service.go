package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/justinwongcn/kvs/internal/domain/cache"
)

// ApplicationService 缓存应用服务
// 协调写回缓存仓储，实现具体的业务用例
type ApplicationService struct {
	repository cache.WriteBackRepository
}

// NewApplicationService 创建缓存应用服务
// repository: 写回缓存仓储
func NewApplicationService(repository cache.WriteBackRepository) *ApplicationService {
	return &ApplicationService{
		repository: repository,
	}
}

// CacheItemCommand 缓存项命令
type CacheItemCommand struct {
	Key   string
	Value string
}

// CacheItemQuery 缓存项查询
type CacheItemQuery struct {
	Key string
}

// CacheItemResult 缓存项结果
type CacheItemResult struct {
	Key   string
	Value string
	Found bool
}

// CacheStatsResult 缓存统计结果
type CacheStatsResult struct {
	Policy     string
	Capacity   int
	Size       int
	Hits       int64
	Misses     int64
	HitRate    float64
	Sets       int64
	Loads      int64
	Evictions  int64
	WriteBacks int64
	Flushes    int64
	DirtyKeys  []string
}

// SetCacheItem 设置缓存项
// 用例：用户想要写入一个数据项，稍后再写回底层存储
func (s *ApplicationService) SetCacheItem(ctx context.Context, cmd CacheItemCommand) error {
	if err := s.validateCacheItemCommand(cmd); err != nil {
		return fmt.Errorf("验证缓存项命令失败: %w", err)
	}

	if err := s.repository.Set(ctx, cmd.Key, cmd.Value); err != nil {
		return fmt.Errorf("设置缓存项失败: %w", err)
	}
	return nil
}

// GetCacheItem 获取缓存项
// 用例：用户想要获取一个数据项，缓存未命中时从底层存储读透
// 缓存和底层存储都不存在时返回Found为false的结果，不视为错误
func (s *ApplicationService) GetCacheItem(ctx context.Context, query CacheItemQuery) (*CacheItemResult, error) {
	if err := s.validateCacheItemQuery(query); err != nil {
		return nil, fmt.Errorf("验证缓存项查询失败: %w", err)
	}

	value, err := s.repository.Get(ctx, query.Key)
	if err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return &CacheItemResult{
				Key:   query.Key,
				Found: false,
			}, nil
		}
		if errors.Is(err, cache.ErrFailedToRefreshCache) {
			// 值已从底层存储读到，只是没能放入缓存
			return &CacheItemResult{Key: query.Key, Value: value, Found: true}, err
		}
		return nil, fmt.Errorf("获取缓存项失败: %w", err)
	}

	return &CacheItemResult{
		Key:   query.Key,
		Value: value,
		Found: true,
	}, nil
}

// FlushDirtyData 刷新脏数据
// 用例：用户想要把所有脏数据写回底层存储，例如在关闭前
func (s *ApplicationService) FlushDirtyData(ctx context.Context) error {
	if err := s.repository.Flush(ctx); err != nil {
		return fmt.Errorf("刷新脏数据失败: %w", err)
	}
	return nil
}

// GetCacheStats 获取缓存统计信息
// 用例：用户想要查看缓存的使用情况和性能指标
func (s *ApplicationService) GetCacheStats(ctx context.Context) (*CacheStatsResult, error) {
	stats := s.repository.Stats()
	return &CacheStatsResult{
		Policy:     s.repository.Policy().String(),
		Capacity:   s.repository.Capacity(),
		Size:       s.repository.Len(),
		Hits:       stats.Hits(),
		Misses:     stats.Misses(),
		HitRate:    stats.HitRate(),
		Sets:       stats.Sets(),
		Loads:      stats.Loads(),
		Evictions:  stats.Evictions(),
		WriteBacks: stats.WriteBacks(),
		Flushes:    stats.Flushes(),
		DirtyKeys:  s.repository.DirtyKeys(),
	}, nil
}

// validateCacheItemCommand 验证缓存项命令
func (s *ApplicationService) validateCacheItemCommand(cmd CacheItemCommand) error {
	if _, err := cache.NewCacheKey(cmd.Key); err != nil {
		return err
	}
	return cache.ValidateValue(cmd.Value)
}

// validateCacheItemQuery 验证缓存项查询
func (s *ApplicationService) validateCacheItemQuery(query CacheItemQuery) error {
	_, err := cache.NewCacheKey(query.Key)
	return err
}
