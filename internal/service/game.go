package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Nyoote/myGames/internal/domain"
	"github.com/Nyoote/myGames/internal/metrics"
	"github.com/Nyoote/myGames/internal/repository"
	"github.com/Nyoote/myGames/internal/validation"
)

// StatsNotifier 在游戏记录变化后得到通知，用于使统计缓存失效。
type StatsNotifier interface {
	MarkStale(ctx context.Context)
}

// GameService 负责游戏记录的查询和写操作，保证 (标题, 平台集合) 唯一。
type GameService struct {
	gameRepo repository.GameRepository
	stats    StatsNotifier
}

// NewGameService 创建 GameService 实例。stats 可以为 nil。
func NewGameService(gameRepo repository.GameRepository, stats StatsNotifier) *GameService {
	if gameRepo == nil {
		panic("GameRepository cannot be nil for GameService")
	}
	return &GameService{gameRepo: gameRepo, stats: stats}
}

// List 返回满足过滤条件的记录，最新创建的在前。
func (s *GameService) List(ctx context.Context, filter domain.GameFilter) ([]domain.Game, error) {
	games, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		logrus.WithError(err).WithField("filter", filter).Error("Failed to list games")
		return nil, ErrInternalServer
	}
	if games == nil {
		games = []domain.Game{}
	}
	return games, nil
}

// Get 根据 ID 返回单条记录。
func (s *GameService) Get(ctx context.Context, id uint) (*domain.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id, "Failed to fetch game")
	}
	return game, nil
}

// Create 校验并插入新记录。
func (s *GameService) Create(ctx context.Context, game *domain.Game) (*domain.Game, error) {
	logCtx := logrus.WithField("title", game.Title)
	err := s.create(ctx, logCtx, game)
	s.afterMutation(ctx, "create", err)
	if err != nil {
		return nil, err
	}
	logCtx.WithField("game_id", game.ID).Info("Game created")
	return game, nil
}

func (s *GameService) create(ctx context.Context, logCtx *logrus.Entry, game *domain.Game) error {
	game.ID = 0
	game.Normalize()
	if fields := validation.Struct(game); fields != nil {
		logCtx.WithField("errors", fields).Warn("Game rejected by validation")
		return newValidationError("Validation error while creating game", fields)
	}

	exists, err := s.gameRepo.ExistsWithIdentity(ctx, game.Title, game.PlatformKey, 0)
	if err != nil {
		logCtx.WithError(err).Error("Failed to check game uniqueness")
		return ErrInternalServer
	}
	if exists {
		logCtx.Warn("Game already exists for this platform set")
		return &ConflictError{Field: "titre", Message: msgGameExists}
	}

	if err := s.gameRepo.Create(ctx, game); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("Game rejected by unique constraint")
			return &ConflictError{Field: "titre", Message: msgGameExists}
		}
		logCtx.WithError(err).Error("Database error during game creation")
		return ErrInternalServer
	}
	return nil
}

// Update 对已存在的记录应用部分更新。
// 修改了标题或平台时重新检查唯一性 (排除自身)，冲突时不写入任何内容。
func (s *GameService) Update(ctx context.Context, id uint, patch domain.GamePatch) (*domain.Game, error) {
	logCtx := logrus.WithField("game_id", id)
	game, err := s.update(ctx, logCtx, id, patch)
	s.afterMutation(ctx, "update", err)
	if err != nil {
		return nil, err
	}
	logCtx.Info("Game updated")
	return game, nil
}

func (s *GameService) update(ctx context.Context, logCtx *logrus.Entry, id uint, patch domain.GamePatch) (*domain.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id, "Failed to load game for update")
	}

	patch.ApplyTo(game)
	game.Normalize()
	if fields := validation.Struct(game); fields != nil {
		logCtx.WithField("errors", fields).Warn("Game update rejected by validation")
		return nil, newValidationError("Validation error while updating game", fields)
	}

	if patch.TouchesIdentity() {
		exists, err := s.gameRepo.ExistsWithIdentity(ctx, game.Title, game.PlatformKey, game.ID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to check game uniqueness")
			return nil, ErrInternalServer
		}
		if exists {
			logCtx.Warn("Game update collides with another record")
			return nil, &ConflictError{Field: "titre", Message: msgGameIdentityUse}
		}
	}

	if err := s.gameRepo.Update(ctx, game); err != nil {
		switch {
		case errors.Is(err, repository.ErrGameNotFound):
			return nil, ErrGameNotFound
		case errors.Is(err, repository.ErrDuplicateEntry):
			logCtx.WithError(err).Warn("Game update rejected by unique constraint")
			return nil, &ConflictError{Field: "titre", Message: msgGameIdentityUse}
		default:
			logCtx.WithError(err).Error("Database error during game update")
			return nil, ErrInternalServer
		}
	}
	return game, nil
}

// Delete 删除记录并返回删除前的内容。
func (s *GameService) Delete(ctx context.Context, id uint) (*domain.Game, error) {
	game, err := s.gameRepo.Delete(ctx, id)
	if err != nil {
		err = s.mapLookupError(err, id, "Failed to delete game")
	}
	s.afterMutation(ctx, "delete", err)
	if err != nil {
		return nil, err
	}
	logrus.WithField("game_id", id).Info("Game deleted")
	return game, nil
}

// ToggleFavorite 翻转收藏标记。
func (s *GameService) ToggleFavorite(ctx context.Context, id uint) (*domain.Game, error) {
	game, err := s.gameRepo.ToggleFavorite(ctx, id)
	if err != nil {
		err = s.mapLookupError(err, id, "Failed to toggle favorite")
	}
	s.afterMutation(ctx, "favorite", err)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"game_id": id, "favorite": game.Favorite}).Info("Game favorite toggled")
	return game, nil
}

func (s *GameService) mapLookupError(err error, id uint, msg string) error {
	if errors.Is(err, repository.ErrGameNotFound) {
		return ErrGameNotFound
	}
	logrus.WithError(err).WithField("game_id", id).Error(msg)
	return ErrInternalServer
}

func (s *GameService) afterMutation(ctx context.Context, operation string, err error) {
	metrics.RecordGameMutation(operation, outcomeOf(err))
	if err == nil && s.stats != nil {
		s.stats.MarkStale(ctx)
	}
}
