package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Nyoote/myGames/internal/auth"
	httpHandler "github.com/Nyoote/myGames/internal/handler/http"
	rediscache "github.com/Nyoote/myGames/internal/infra/cache/redis"
	gormpersistence "github.com/Nyoote/myGames/internal/infra/persistence/gorm"
	"github.com/Nyoote/myGames/internal/infra/setup"
	"github.com/Nyoote/myGames/internal/middleware"
	"github.com/Nyoote/myGames/internal/service"
	"github.com/Nyoote/myGames/internal/tasks"
	"github.com/Nyoote/myGames/internal/worker"
)

const tokenIssuer = "mygames"

// App 结构体包含应用的所有组件和配置
type App struct {
	Config         *Config
	Log            *logrus.Logger
	DB             *gorm.DB
	RedisClient    *redis.Client
	AsynqClient    *asynq.Client
	AsynqServer    *worker.WorkerServer
	Scheduler      *asynq.Scheduler
	HttpServer     *http.Server
	redisClientOpt asynq.RedisClientOpt
}

// NewApp 创建并初始化应用的所有组件
func NewApp() (*App, error) {
	// 1. 加载配置
	cfg, err := LoadConfig()
	if err != nil {
		// logrus 此时还未配置
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	// 2. 初始化 Logger
	log := newLogger(cfg)
	log.Info("Configuration loaded successfully")

	// 3. 初始化基础设施
	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	log.WithField("driver", cfg.DB.Driver).Info("Database initialized")

	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	log.Info("Redis client initialized")

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)
	log.Info("Asynq client initialized")

	// 4. 初始化 Repositories
	userRepo := gormpersistence.NewGormUserRepository(db)
	gameRepo := gormpersistence.NewGormGameRepository(db)
	statsCache := rediscache.NewRedisStatsCache(redisClient, cfg.KeyPrefix)
	log.Info("Repositories initialized")

	// 5. 初始化 Services
	hasher, err := auth.NewPasswordHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}
	tokenCfg, err := auth.NewTokenConfig(cfg.JWTSecret, cfg.JWTExpiry, tokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("invalid token config: %w", err)
	}
	tokens, err := auth.NewTokenManager(tokenCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}
	authService := service.NewAuthService(userRepo, hasher, tokens)
	statsService := service.NewStatsService(gameRepo, statsCache, asynqClient, cfg.StatsCacheTTL)
	gameService := service.NewGameService(gameRepo, statsService)
	log.Info("Services initialized")

	// 6. 初始化 Worker Server
	workerServer := worker.NewWorkerServer(redisClientOpt, statsService, log)
	log.Info("Worker server initialized")

	// 7. 初始化 Gin Engine 和路由
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(LoggerMiddleware(log))
	router.Use(middleware.Metrics())
	router.Use(CORSMiddleware(cfg.CORSAllowedOrigin))

	httpHandler.RegisterRoutes(router, httpHandler.Handlers{
		Auth:  httpHandler.NewAuthHandler(authService),
		User:  httpHandler.NewUserHandler(authService),
		Game:  httpHandler.NewGameHandler(gameService),
		Stats: httpHandler.NewStatsHandler(statsService),
	}, authService)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	log.Info("Router setup complete")

	// 8. 初始化 HTTP Server
	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	app := &App{
		Config:         cfg,
		Log:            log,
		DB:             db,
		RedisClient:    redisClient,
		AsynqClient:    asynqClient,
		AsynqServer:    workerServer,
		HttpServer:     httpServer,
		redisClientOpt: redisClientOpt,
	}
	log.Info("Application assembled successfully")

	return app, nil
}

func newLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel) // 已由 LoadConfig 验证
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)

	// 服务层使用包级 logrus，保持同样的格式和级别
	logrus.SetFormatter(log.Formatter)
	logrus.SetLevel(logLevel)
	logrus.SetOutput(os.Stdout)

	log.Infof("Logger initialized (Level: %s, Format: %T)", logLevel.String(), log.Formatter)
	return log
}

// Start 启动应用的所有后台 Goroutine 和 HTTP 服务器
func (a *App) Start() {
	go a.AsynqServer.Start()
	a.Log.Info("Asynq worker server routine started")

	a.registerPeriodicTasks()

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// registerPeriodicTasks 按配置周期性投递统计刷新任务
func (a *App) registerPeriodicTasks() {
	scheduler := asynq.NewScheduler(a.redisClientOpt, &asynq.SchedulerOpts{})

	task, err := tasks.NewStatsRefreshTask(tasks.ReasonSchedule, time.Now())
	if err != nil {
		a.Log.Errorf("Failed to create stats refresh task: %v", err)
		return
	}

	schedule := a.Config.StatsRefreshSchedule
	entryID, err := scheduler.Register(schedule, task, asynq.Queue("default"))
	if err != nil {
		a.Log.Errorf("Could not register periodic stats refresh task: %v", err)
		return
	}
	a.Log.Infof("Periodic stats refresh task registered with schedule '%s' (EntryID: %s)", schedule, entryID)

	// Start 不阻塞，关闭由 Shutdown 负责
	if err := scheduler.Start(); err != nil {
		a.Log.Errorf("Asynq scheduler failed to start: %v", err)
		return
	}
	a.Scheduler = scheduler
	a.Log.Info("Asynq scheduler started")
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 先停止 HTTP 服务器，不再接受新的写操作
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// 2. 停止周期任务和 Worker
	if a.Scheduler != nil {
		a.Scheduler.Shutdown()
	}
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	// 3. 关闭 Asynq Client
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		} else {
			a.Log.Info("Asynq client closed.")
		}
	}

	// 4. 关闭 Redis 连接
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		} else {
			a.Log.Info("Redis connection closed.")
		}
	}

	// 5. 关闭数据库连接池
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete.")
}
