package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Nyoote/myGames/internal/middleware"
	"github.com/Nyoote/myGames/internal/service"
)

// UserHandler 处理当前用户信息与用户列表
type UserHandler struct {
	authService *service.AuthService
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Me 返回认证中间件解析出的当前用户
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		logrus.Error("Handler.Me: user not found in context, auth middleware missing?")
		MessageResponse(c, http.StatusInternalServerError, "Unable to fetch user info")
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

// List 返回所有用户的公开信息
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err, "Error, cannot find users")
		return
	}
	c.JSON(http.StatusOK, users)
}
