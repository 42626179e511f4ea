package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Nyoote/myGames/internal/dto"
	"github.com/Nyoote/myGames/internal/service"
	"github.com/Nyoote/myGames/internal/validation"
)

// AuthHandler 封装了与用户认证相关的 HTTP 处理逻辑
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 创建 AuthHandler 实例
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest 定义注册请求的结构体
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=191"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid input format")
		respondBindingError(c, err, "Invalid registration data")
		return
	}

	newUser, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		HandleServiceError(c, err, "Registration failed due to server error")
		return
	}

	logrus.WithField("user_id", newUser.ID).Info("Handler.Register: User registered successfully")
	MessageResponse(c, http.StatusCreated, "User created successfully")
}

// LoginRequest 定义登录请求的结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 定义登录成功的响应结构体
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid input format")
		respondBindingError(c, err, "Email and password are required")
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(c, err, "Login failed due to server error")
		return
	}

	logrus.WithField("user_id", user.ID).Info("Handler.Login: User logged in successfully")
	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   token,
	})
}

// respondBindingError 返回 400 {message, errors}，请求体超出上限时返回 413。
// 校验错误带上字段级信息，JSON 语法或类型错误只返回 message。
func respondBindingError(c *gin.Context, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		MessageResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	fields := validation.FieldErrors(err)
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{Message: message + ": " + err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{Message: message, Errors: fields})
}
