package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Nyoote/myGames/internal/domain"
	"github.com/Nyoote/myGames/internal/service"
)

// gin 上下文中保存身份信息的键
const (
	ContextKeyUser   = "user"
	ContextKeyUserID = "user_id"
)

// Authenticator 把 bearer token 解析为用户，由 service.AuthService 实现。
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

var (
	// ErrMissingAuthHeader 表示缺少 Authorization 头
	ErrMissingAuthHeader = errors.New("missing Authorization header")
	// ErrMalformedAuthHeader 表示 Authorization 头不是 "Bearer <token>" 格式
	ErrMalformedAuthHeader = errors.New("malformed Authorization header")
)

// Auth 返回一个 Gin 中间件：校验 bearer token 并把对应的用户放进上下文。
// 任何一步失败都以 401 终止请求，存储故障返回 500。
func Auth(authenticator Authenticator) gin.HandlerFunc {
	if authenticator == nil {
		panic("Authenticator cannot be nil for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			if errors.Is(err, ErrMissingAuthHeader) {
				logrus.Warn("Auth middleware: Missing Authorization header")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			} else {
				logrus.WithError(err).Warn("Auth middleware: Malformed Authorization header")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			}
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				logrus.WithError(err).Warn("Auth middleware: Invalid token")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			} else {
				logrus.WithError(err).Error("Auth middleware: Failed to resolve user")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to verify credentials"})
			}
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyUserID, user.ID)
		logrus.WithField("user_id", user.ID).Debug("Auth middleware: User authenticated via JWT")

		c.Next()
	}
}

// CurrentUser 返回 Auth 中间件放入上下文的用户。
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok && user != nil
}

// extractToken 从 Gin 上下文中提取 Bearer Token
func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	// Authorization header 格式应为 "Bearer <token>"，"Bearer" 大小写不敏感
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrMalformedAuthHeader
	}
	return parts[1], nil
}
