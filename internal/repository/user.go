package repository

import (
	"context"

	"github.com/Nyoote/myGames/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// FindByUsername 根据用户名查找用户。
	// 如果用户不存在，返回 ErrUserNotFound。
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByEmail 根据邮箱查找用户。
	// 如果用户不存在，返回 ErrUserNotFound。
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。
	// 如果用户不存在，返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// Create 插入新用户。违反用户名或邮箱唯一约束时返回 *DuplicateEntryError。
	Create(ctx context.Context, user *domain.User) error

	// List 按创建顺序返回所有用户。
	List(ctx context.Context) ([]domain.User, error)
}
