package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Nyoote/myGames/internal/domain"
	"github.com/Nyoote/myGames/internal/tasks"
)

// StatsRefresher 是 *service.StatsService 中刷新统计的部分
type StatsRefresher interface {
	Refresh(ctx context.Context) (*domain.GameStats, error)
}

// StatsRefreshHandler 处理统计刷新任务
type StatsRefreshHandler struct {
	stats StatsRefresher
}

// NewStatsRefreshHandler 创建 Handler 实例
func NewStatsRefreshHandler(stats StatsRefresher) *StatsRefreshHandler {
	return &StatsRefreshHandler{stats: stats}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *StatsRefreshHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
		"max_retry": maxRetry,
	})

	var payload tasks.StatsRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithField("reason", payload.Reason)
	logCtx.Debug("Processing stats refresh task...")

	stats, err := h.stats.Refresh(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to refresh game stats")
		return fmt.Errorf("failed to refresh stats: %w", err)
	}

	logCtx.WithField("total_games", stats.TotalGames).Info("Stats refresh task processed successfully")
	return nil
}
