package repository

import (
	"context"
	"time"

	"github.com/Nyoote/myGames/internal/domain"
)

// StatsCache 缓存聚合统计结果，通常由 Redis 实现。
type StatsCache interface {
	// Get 读取缓存。未命中时返回 ErrNotFound。
	Get(ctx context.Context) (*domain.GameStats, error)

	// Set 写入缓存，ttl 为 0 表示不过期。
	Set(ctx context.Context, stats *domain.GameStats, ttl time.Duration) error

	// Invalidate 删除缓存，使下一次读取重新计算。
	Invalidate(ctx context.Context) error
}
