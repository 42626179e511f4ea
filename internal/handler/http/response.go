package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Nyoote/myGames/internal/dto"
)

// ErrorResponse 返回 {"error": message}
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// MessageResponse 返回 {"message": message}
func MessageResponse(c *gin.Context, code int, message string) {
	c.JSON(code, dto.MessageResponse{Message: message})
}
