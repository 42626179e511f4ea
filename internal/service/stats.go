package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Nyoote/myGames/internal/domain"
	"github.com/Nyoote/myGames/internal/metrics"
	"github.com/Nyoote/myGames/internal/repository"
	"github.com/Nyoote/myGames/internal/tasks"
)

// TaskEnqueuer 是 *asynq.Client 中本服务用到的部分。
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// StatsService 提供收藏统计。结果缓存在 StatsCache 中，
// 写操作使缓存失效并投递一个后台刷新任务。缓存和任务都是尽力而为的。
type StatsService struct {
	gameRepo repository.GameRepository
	cache    repository.StatsCache // 可以为 nil
	enqueuer TaskEnqueuer          // 可以为 nil
	ttl      time.Duration
	now      func() time.Time

	// generation 每次 MarkStale 加一，Refresh 只在计算期间没有发生写操作时写缓存
	generation atomic.Uint64
}

// NewStatsService 创建 StatsService 实例。
func NewStatsService(gameRepo repository.GameRepository, cache repository.StatsCache, enqueuer TaskEnqueuer, ttl time.Duration) *StatsService {
	if gameRepo == nil {
		panic("GameRepository cannot be nil for StatsService")
	}
	return &StatsService{gameRepo: gameRepo, cache: cache, enqueuer: enqueuer, ttl: ttl, now: time.Now}
}

// Get 优先返回缓存，未命中或缓存不可用时直接计算。
func (s *StatsService) Get(ctx context.Context) (*domain.GameStats, error) {
	if s.cache != nil {
		stats, err := s.cache.Get(ctx)
		switch {
		case err == nil:
			metrics.RecordStatsCache("hit")
			return stats, nil
		case errors.Is(err, repository.ErrNotFound):
			metrics.RecordStatsCache("miss")
		default:
			metrics.RecordStatsCache("error")
			logrus.WithError(err).Warn("Stats cache unavailable, computing directly")
		}
	}
	return s.Refresh(ctx)
}

// Refresh 重新计算统计并写入缓存。
// 计算期间如果有记录被修改，结果仍然返回给调用者，但不写入缓存。
func (s *StatsService) Refresh(ctx context.Context) (*domain.GameStats, error) {
	gen := s.generation.Load()
	stats, err := s.gameRepo.Stats(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to compute game stats")
		return nil, ErrInternalServer
	}
	if s.generation.Load() != gen {
		logrus.Debug("Game stats changed during computation, skipping cache write")
		return stats, nil
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, stats, s.ttl); err != nil {
			logrus.WithError(err).Warn("Failed to cache game stats")
		}
	}
	return stats, nil
}

// MarkStale 实现 StatsNotifier：删除缓存并投递刷新任务，失败只记录日志。
func (s *StatsService) MarkStale(ctx context.Context) {
	s.generation.Add(1)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			logrus.WithError(err).Warn("Failed to invalidate stats cache")
		}
	}
	if s.enqueuer == nil {
		return
	}
	task, err := tasks.NewStatsRefreshTask(tasks.ReasonMutation, s.now())
	if err != nil {
		logrus.WithError(err).Error("Failed to build stats refresh task")
		return
	}
	info, err := s.enqueuer.EnqueueContext(ctx, task, asynq.Queue("default"))
	if err != nil {
		logrus.WithError(err).Warn("Failed to enqueue stats refresh task")
		return
	}
	logrus.WithField("task_id", info.ID).Debug("Stats refresh task enqueued")
}
