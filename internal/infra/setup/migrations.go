package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Nyoote/myGames/internal/domain"
)

// MigrateDB 创建或更新 users 和 games 表以及它们的唯一索引。
// 返回错误以便调用者知道迁移是否成功。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		logrus.Errorf("Failed to auto-migrate users table: %v", err)
		return fmt.Errorf("failed to migrate users table: %w", err)
	}

	if err := db.AutoMigrate(&domain.Game{}); err != nil {
		logrus.Errorf("Failed to auto-migrate games table: %v", err)
		return fmt.Errorf("failed to migrate games table: %w", err)
	}

	// 唯一约束是并发写入下的最终裁决者，索引缺失时直接失败
	for _, idx := range []struct {
		model interface{}
		name  string
	}{
		{&domain.User{}, "idx_users_username"},
		{&domain.User{}, "idx_users_email"},
		{&domain.Game{}, "idx_games_title_platforms"},
	} {
		if !db.Migrator().HasIndex(idx.model, idx.name) {
			return fmt.Errorf("unique index %s is missing after migration", idx.name)
		}
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
