package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Nyoote/myGames/internal/infra/setup"
)

// Config 结构体用于存储从环境变量或文件加载的配置
type Config struct {
	AppEnv     string // development / production
	LogLevel   string
	ServerPort string

	DB setup.DBConfig

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string // Redis Key 前缀

	JWTSecret string
	JWTExpiry time.Duration

	StatsCacheTTL        time.Duration
	StatsRefreshSchedule string // asynq scheduler 的 cron 表达式
	CORSAllowedOrigin    string
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	// 优先加载 .env 文件 (如果存在)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DB: setup.DBConfig{
			Driver:   getEnv("DB_DRIVER", setup.DriverMySQL),
			DSN:      os.Getenv("DB_DSN"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			Name:     os.Getenv("DB_NAME"),
		},
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		KeyPrefix:            getEnv("REDIS_KEY_PREFIX", "gl:"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		StatsRefreshSchedule: getEnv("STATS_REFRESH_SCHEDULE", "@every 10m"),
		CORSAllowedOrigin:    getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
	}

	// 处理 Redis DB，解析失败默认为 0
	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))

	var err error
	if cfg.JWTExpiry, err = getDuration("JWT_EXPIRY", time.Hour); err != nil {
		return nil, err
	}
	if cfg.StatsCacheTTL, err = getDuration("STATS_CACHE_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	switch cfg.DB.Driver {
	case setup.DriverMySQL, setup.DriverPostgres, setup.DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("environment variable JWT_SECRET must be set")
	}

	// 验证日志级别
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("environment variable %s must be a positive duration, got %q", key, raw)
	}
	return d, nil
}
