package repository

import (
	"context"

	"github.com/Nyoote/myGames/internal/domain"
)

// GameRepository 定义了游戏记录的存储和检索操作。
type GameRepository interface {
	// List 返回满足过滤条件的全部记录，按创建时间倒序。
	List(ctx context.Context, filter domain.GameFilter) ([]domain.Game, error)

	// FindByID 根据 ID 查找记录，不存在时返回 ErrGameNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Game, error)

	// ExistsWithIdentity 检查是否存在 (标题, 平台集合) 相同的记录，excludeID 为 0 时不排除任何记录。
	ExistsWithIdentity(ctx context.Context, title, platformKey string, excludeID uint) (bool, error)

	// Create 插入新记录。违反唯一约束时返回 *DuplicateEntryError。
	Create(ctx context.Context, game *domain.Game) error

	// Update 保存已存在记录的全部字段。违反唯一约束时返回 *DuplicateEntryError，
	// 记录不存在时返回 ErrGameNotFound。
	Update(ctx context.Context, game *domain.Game) error

	// Delete 物理删除记录并返回删除前的快照。
	Delete(ctx context.Context, id uint) (*domain.Game, error)

	// ToggleFavorite 原子地翻转收藏标记并返回更新后的记录。
	ToggleFavorite(ctx context.Context, id uint) (*domain.Game, error)

	// Stats 计算整个收藏的聚合统计。
	Stats(ctx context.Context) (*domain.GameStats, error)
}
