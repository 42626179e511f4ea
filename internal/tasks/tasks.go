package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// 定义任务类型常量
const (
	TypeStatsRefresh = "stats:refresh" // 重新计算并缓存收藏统计
)

// 触发刷新的原因
const (
	ReasonMutation = "mutation" // 游戏记录被修改
	ReasonSchedule = "schedule" // 周期性刷新
)

// StatsRefreshPayload 定义了统计刷新任务的数据结构
type StatsRefreshPayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewStatsRefreshPayload 序列化统计刷新任务的 payload
func NewStatsRefreshPayload(reason string, requestedAt time.Time) ([]byte, error) {
	return json.Marshal(StatsRefreshPayload{Reason: reason, RequestedAt: requestedAt})
}

// NewStatsRefreshTask 创建统计刷新任务，失败最多重试 3 次
func NewStatsRefreshTask(reason string, requestedAt time.Time) (*asynq.Task, error) {
	payload, err := NewStatsRefreshPayload(reason, requestedAt)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeStatsRefresh, payload, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}
