package setup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 支持的数据库驱动
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConfig 描述数据库连接。DSN 非空时直接使用，否则由各部分拼接。
type DBConfig struct {
	Driver   string
	DSN      string
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// InitDB 根据驱动打开数据库连接并设置连接池
func InitDB(cfg DBConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// 每个 :memory: 连接都是独立的数据库，只能保留一个连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	logrus.WithField("driver", cfg.Driver).Info("Database connected")
	return db, nil
}

func dialectorFor(cfg DBConfig) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverMySQL, "":
		dsn := cfg.DSN
		if dsn == "" {
			if cfg.User == "" {
				return nil, fmt.Errorf("DB_USER environment variable not set")
			}
			host, port := withDefault(cfg.Host, "127.0.0.1"), withDefault(cfg.Port, "3306")
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				cfg.User, cfg.Password, host, port, withDefault(cfg.Name, "mygames"))
		}
		return mysql.Open(dsn), nil
	case DriverPostgres:
		dsn := cfg.DSN
		if dsn == "" {
			if cfg.User == "" {
				return nil, fmt.Errorf("DB_USER environment variable not set")
			}
			host, port := withDefault(cfg.Host, "127.0.0.1"), withDefault(cfg.Port, "5432")
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				host, port, cfg.User, cfg.Password, withDefault(cfg.Name, "mygames"))
		}
		return postgres.Open(dsn), nil
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file:mygames.db"
		}
		dsn = strings.TrimPrefix(dsn, "sqlite://")
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// InitRedis 初始化 Redis 连接并检查连通性
func InitRedis(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MinIdleConns: 5,
		MaxConnAge:   30 * time.Minute,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	logrus.WithField("addr", addr).Info("Redis connected")
	return client, nil
}
