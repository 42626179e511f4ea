package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 是请求 ID 使用的 HTTP 头
const RequestIDHeader = "X-Request-ID"

// ContextKeyRequestID 是 gin 上下文中请求 ID 的键
const ContextKeyRequestID = "request_id"

// RequestID 为每个请求分配 ID：沿用上游代理传入的 X-Request-ID，否则生成 UUID v4。
// ID 同时写入响应头和 gin 上下文，供日志中间件使用。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID 返回当前请求的 ID，没有时返回空字符串
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
