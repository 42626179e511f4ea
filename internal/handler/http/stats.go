package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nyoote/myGames/internal/service"
)

// StatsHandler 返回游戏库的汇总统计
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler 创建 StatsHandler 实例
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Get 返回统计结果，优先读取缓存
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.statsService.Get(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err, "Error computing statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
