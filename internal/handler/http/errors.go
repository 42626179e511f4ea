package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Nyoote/myGames/internal/dto"
	"github.com/Nyoote/myGames/internal/service"
)

// HandleServiceError 把服务层错误映射为 HTTP 响应。
// fallback 是 500 时返回给客户端的信息，内部错误细节只写日志。
func HandleServiceError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	var conflict *service.ConflictError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{Message: verr.Message, Errors: verr.Fields})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, dto.ConflictResponse{Field: conflict.Field, Error: conflict.Message})
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrUnauthorized):
		ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, service.ErrGameNotFound):
		MessageResponse(c, http.StatusNotFound, "Game not found")
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled internal server error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback, "error": service.ErrInternalServer.Error()})
	}
}
