package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Nyoote/myGames/internal/domain"
	"github.com/Nyoote/myGames/internal/repository"
)

// RedisStatsCache 是 StatsCache 接口的 Redis 实现，统计结果以 JSON 字符串存储
type RedisStatsCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStatsCache 创建 RedisStatsCache 实例
func NewRedisStatsCache(client *redis.Client, keyPrefix string) *RedisStatsCache {
	if client == nil {
		panic("redis client cannot be nil for RedisStatsCache")
	}
	if keyPrefix == "" {
		keyPrefix = "gl:" // 默认前缀 "gl:" (game library)
	}
	return &RedisStatsCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisStatsCache) statsKey() string {
	return c.keyPrefix + "games:stats"
}

// Get 读取缓存的统计结果，未命中时返回 repository.ErrNotFound
func (c *RedisStatsCache) Get(ctx context.Context) (*domain.GameStats, error) {
	key := c.statsKey()
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis: failed to get stats from %s: %w", key, err)
	}

	var stats domain.GameStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		// 内容损坏按未命中处理，由调用方重新计算并覆盖
		return nil, repository.ErrNotFound
	}
	return &stats, nil
}

// Set 写入统计结果
func (c *RedisStatsCache) Set(ctx context.Context, stats *domain.GameStats, ttl time.Duration) error {
	if stats == nil {
		return fmt.Errorf("redis: cannot cache nil stats")
	}
	key := c.statsKey()
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("redis: failed to marshal stats: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to set stats at %s: %w", key, err)
	}
	return nil
}

// Invalidate 删除缓存
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	key := c.statsKey()
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete %s: %w", key, err)
	}
	return nil
}
