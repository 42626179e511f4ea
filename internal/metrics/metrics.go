// Package metrics 定义服务暴露的 Prometheus 指标，通过 /metrics 输出。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签取值
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // 客户端错误：校验失败、冲突、凭据错误、不存在
	OutcomeError    = "error"    // 服务端错误
)

var (
	// HTTPRequestsTotal 按方法、路由模板和状态码统计请求数
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mygames_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration 记录请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mygames_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthAttemptsTotal 统计注册、登录和 token 校验的结果
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mygames_auth_attempts_total",
			Help: "Total number of authentication attempts by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// GameMutationsTotal 统计游戏记录的写操作
	GameMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mygames_game_mutations_total",
			Help: "Total number of game mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// StatsCacheLookupsTotal 统计缓存命中情况
	StatsCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mygames_stats_cache_lookups_total",
			Help: "Total number of stats cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest 记录一次请求
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuth 记录一次认证相关操作
func RecordAuth(action, outcome string) {
	AuthAttemptsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordGameMutation 记录一次写操作
func RecordGameMutation(operation, outcome string) {
	GameMutationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordStatsCache 记录缓存查询结果 (hit/miss/error)
func RecordStatsCache(result string) {
	StatsCacheLookupsTotal.WithLabelValues(result).Inc()
}
