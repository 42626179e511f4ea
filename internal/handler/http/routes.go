package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nyoote/myGames/internal/middleware"
	"github.com/Nyoote/myGames/internal/validation"
)

// MaxBodyBytes 是请求体的大小上限
const MaxBodyBytes = 1 << 20

// Handlers 汇总所有需要挂载的 HTTP handler
type Handlers struct {
	Auth  *AuthHandler
	User  *UserHandler
	Game  *GameHandler
	Stats *StatsHandler
}

// RegisterRoutes 在 router 上注册全部业务路由，/api 下的路由需要认证
func RegisterRoutes(router *gin.Engine, h Handlers, authenticator middleware.Authenticator) {
	validation.UseJSONNamesInBinding()

	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Hello World!") })

	authRoutes := router.Group("/auth")
	authRoutes.Use(LimitBody(MaxBodyBytes))
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
	}

	api := router.Group("/api")
	api.Use(middleware.Auth(authenticator), LimitBody(MaxBodyBytes))
	{
		api.GET("/me", h.User.Me)
		api.GET("/getUsers", h.User.List)

		api.GET("/getGames", h.Game.List)
		api.GET("/games/:id", h.Game.Get)
		api.POST("/addGame", h.Game.Create)
		api.PATCH("/updateGame/:id", h.Game.Update)
		api.DELETE("/deleteGame/:id", h.Game.Delete)
		api.POST("/games/:id/favorite", h.Game.ToggleFavorite)

		api.GET("/stats", h.Stats.Get)
	}
}

// LimitBody 限制请求体大小，超出时读取请求体会返回 *http.MaxBytesError
func LimitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
