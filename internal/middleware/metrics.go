package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nyoote/myGames/internal/metrics"
)

// Metrics 记录每个请求的次数和耗时。路由标签使用路由模板 (c.FullPath)，
// 避免把 ID 之类的路径参数变成高基数标签。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
