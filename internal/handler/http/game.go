package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/Nyoote/myGames/internal/domain"
	"github.com/Nyoote/myGames/internal/dto"
	"github.com/Nyoote/myGames/internal/middleware"
	"github.com/Nyoote/myGames/internal/service"
)

// GameHandler 封装游戏记录相关的 HTTP 处理逻辑
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler 创建 GameHandler 实例
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// List 按查询参数过滤并返回游戏列表
func (h *GameHandler) List(c *gin.Context) {
	filter, err := service.ParseGameFilter(c.Request.URL.Query())
	if err != nil {
		HandleServiceError(c, err, "Error, cannot find games")
		return
	}

	games, err := h.gameService.List(c.Request.Context(), filter)
	if err != nil {
		HandleServiceError(c, err, "Error, cannot find games")
		return
	}
	c.JSON(http.StatusOK, games)
}

// Get 返回单条记录
func (h *GameHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	game, err := h.gameService.Get(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err, "Error fetching game")
		return
	}
	c.JSON(http.StatusOK, game)
}

// Create 新增一条游戏记录
func (h *GameHandler) Create(c *gin.Context) {
	var req dto.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateGame: Invalid input format")
		respondBindingError(c, err, "Validation error while creating game")
		return
	}

	game, err := h.gameService.Create(c.Request.Context(), req.ToGame())
	if err != nil {
		HandleServiceError(c, err, "Error creating game")
		return
	}

	logrus.WithFields(logrus.Fields{
		"game_id": game.ID,
		"user_id": c.GetUint(middleware.ContextKeyUserID),
	}).Info("Handler.CreateGame: Game created successfully")
	c.JSON(http.StatusCreated, dto.GameMessageResponse{Message: "Game created successfully", Game: game})
}

// Update 对记录做部分更新，空请求体视为不修改任何字段
func (h *GameHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logrus.WithError(err).Warn("Handler.UpdateGame: Failed to read request body")
		respondBindingError(c, err, "Validation error while updating game")
		return
	}

	var patch domain.GamePatch
	if len(body) > 0 {
		if err := binding.JSON.BindBody(body, &patch); err != nil {
			logrus.WithError(err).Warn("Handler.UpdateGame: Invalid input format")
			respondBindingError(c, err, "Validation error while updating game")
			return
		}
	}

	game, err := h.gameService.Update(c.Request.Context(), id, patch)
	if err != nil {
		HandleServiceError(c, err, "Error updating game")
		return
	}
	c.JSON(http.StatusOK, dto.GameMessageResponse{Message: "Game updated successfully", Game: game})
}

// Delete 删除记录并返回删除前的内容
func (h *GameHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	game, err := h.gameService.Delete(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err, "Error deleting game")
		return
	}
	c.JSON(http.StatusOK, dto.GameMessageResponse{Message: "Game deleted successfully", Game: game})
}

// ToggleFavorite 翻转收藏标记
func (h *GameHandler) ToggleFavorite(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	game, err := h.gameService.ToggleFavorite(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err, "Error updating favorite")
		return
	}
	c.JSON(http.StatusOK, dto.GameMessageResponse{Message: "Favorite updated successfully", Game: game})
}

// parseID 解析路径中的 :id。非数字或 0 一律按记录不存在处理。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
	if err != nil || id == 0 {
		MessageResponse(c, http.StatusNotFound, "Game not found")
		return 0, false
	}
	return uint(id), true
}
