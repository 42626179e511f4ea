package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/Nyoote/myGames/internal/domain"
	"github.com/Nyoote/myGames/internal/repository"
)

// LIKE 的转义字符。'\' 在 MySQL 字符串字面量里本身需要转义，'!' 在三种数据库中写法一致。
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// GormGameRepository 是 GameRepository 接口的 GORM 实现
type GormGameRepository struct {
	db *gorm.DB
}

// NewGormGameRepository 创建 GormGameRepository 实例
func NewGormGameRepository(db *gorm.DB) *GormGameRepository {
	if db == nil {
		panic("database connection cannot be nil for GormGameRepository")
	}
	return &GormGameRepository{db: db}
}

// List 按过滤条件查询，创建时间倒序 (相同时间按 ID 倒序)
func (r *GormGameRepository) List(ctx context.Context, filter domain.GameFilter) ([]domain.Game, error) {
	games := make([]domain.Game, 0)
	err := r.db.WithContext(ctx).
		Scopes(filterGames(filter)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list games: %w", err)
	}
	return games, nil
}

// filterGames 把 GameFilter 转换为 WHERE 条件，所有条件以 AND 组合
func filterGames(f domain.GameFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Title != "" {
			db = db.Where("title_search LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(f.Title))
		}
		if f.Genre != "" {
			db = db.Where("genres_search LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(f.Genre))
		}
		if f.Platform != "" {
			db = db.Where("platforms_search LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(f.Platform))
		}
		if f.Finished != nil {
			db = db.Where("finished = ?", *f.Finished)
		}
		if f.ReleaseYearMin != nil {
			db = db.Where("release_year >= ?", *f.ReleaseYearMin)
		}
		if f.ReleaseYearMax != nil {
			db = db.Where("release_year <= ?", *f.ReleaseYearMax)
		}
		if f.FavoritesOnly {
			db = db.Where("favorite = ?", true)
		}
		return db
	}
}

// containsPattern 生成子串匹配模式，折叠方式与检索列一致，用户输入中的通配符按字面量处理
func containsPattern(s string) string {
	return "%" + likeReplacer.Replace(domain.SearchFold(s)) + "%"
}

// FindByID 根据 ID 查找记录
func (r *GormGameRepository) FindByID(ctx context.Context, id uint) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).First(&game, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGameNotFound
		}
		return nil, fmt.Errorf("gorm: find game by id %d: %w", id, err)
	}
	return &game, nil
}

// ExistsWithIdentity 检查 (标题, 平台摘要) 是否已被其他记录占用
func (r *GormGameRepository) ExistsWithIdentity(ctx context.Context, title, platformKey string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&domain.Game{}).
		Where("title = ? AND platform_key = ?", title, platformKey)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("gorm: check game identity (title: %s): %w", title, err)
	}
	return count > 0, nil
}

// Create 插入新记录
func (r *GormGameRepository) Create(ctx context.Context, game *domain.Game) error {
	err := r.db.WithContext(ctx).Create(game).Error
	if err != nil {
		if dup := asDuplicateEntry(err); dup != nil {
			return dup
		}
		return fmt.Errorf("gorm: create game (title: %s): %w", game.Title, err)
	}
	return nil
}

// Update 覆盖已存在记录的全部可写字段。
// 不使用 Save：记录不存在时 Save 会退化为插入。
func (r *GormGameRepository) Update(ctx context.Context, game *domain.Game) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Game
		if err := tx.Select("id").First(&existing, game.ID).Error; err != nil {
			return err
		}
		return tx.Model(game).Select("*").Omit("id", "created_at").Updates(game).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrGameNotFound
		}
		if dup := asDuplicateEntry(err); dup != nil {
			return dup
		}
		return fmt.Errorf("gorm: update game %d: %w", game.ID, err)
	}
	return nil
}

// Delete 删除记录并返回删除前的快照
func (r *GormGameRepository) Delete(ctx context.Context, id uint) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&game, id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Game{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGameNotFound
		}
		return nil, fmt.Errorf("gorm: delete game %d: %w", id, err)
	}
	return &game, nil
}

// ToggleFavorite 在数据库内翻转收藏标记，并发请求不会互相覆盖
func (r *GormGameRepository) ToggleFavorite(ctx context.Context, id uint) (*domain.Game, error) {
	var game domain.Game
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Game{}).Where("id = ?", id).Update("favorite", gorm.Expr("NOT favorite"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&game, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGameNotFound
		}
		return nil, fmt.Errorf("gorm: toggle favorite on game %d: %w", id, err)
	}
	return &game, nil
}

type statsRow struct {
	Total         int64
	Finished      int64
	Playtime      float64
	AvgMetacritic *float64
	Favorites     int64
}

// Stats 用一条聚合查询计算统计
func (r *GormGameRepository) Stats(ctx context.Context) (*domain.GameStats, error) {
	var row statsRow
	err := r.db.WithContext(ctx).Model(&domain.Game{}).Select(`
		COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN finished THEN 1 ELSE 0 END), 0) AS finished,
		COALESCE(SUM(play_time_hours), 0) AS playtime,
		AVG(metacritic_score) AS avg_metacritic,
		COALESCE(SUM(CASE WHEN favorite THEN 1 ELSE 0 END), 0) AS favorites`).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: compute game stats: %w", err)
	}

	stats := &domain.GameStats{
		TotalGames:      row.Total,
		FinishedGames:   row.Finished,
		UnfinishedGames: row.Total - row.Finished,
		TotalPlaytime:   row.Playtime,
		FavoriteCount:   row.Favorites,
	}
	if row.AvgMetacritic != nil {
		avg := math.Round(*row.AvgMetacritic*10) / 10
		stats.AvgMetacritic = &avg
	}
	return stats, nil
}
