package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nyoote/myGames/internal/domain"
	"github.com/Nyoote/myGames/internal/repository"
	"github.com/Nyoote/myGames/internal/repository/mocks"
	"github.com/Nyoote/myGames/internal/service"
)

// recordingNotifier 记录 MarkStale 的调用次数
type recordingNotifier struct {
	calls int
}

func (n *recordingNotifier) MarkStale(context.Context) { n.calls++ }

func newGameService(t *testing.T) (*service.GameService, *mocks.GameRepository, *recordingNotifier) {
	t.Helper()
	repo := mocks.NewGameRepository(t)
	notifier := &recordingNotifier{}
	return service.NewGameService(repo, notifier), repo, notifier
}

func validGame() *domain.Game {
	score := 97
	return &domain.Game{
		Title:           " Zelda ",
		Genres:          domain.StringSet{"Action", "Adventure"},
		Platforms:       domain.StringSet{"Switch", "Wii U"},
		Publisher:       "Nintendo",
		Developer:       "Nintendo EPD",
		ReleaseYear:     2017,
		MetacriticScore: &score,
		PlayTimeHours:   120,
	}
}

func decodePatch(t *testing.T, body string) domain.GamePatch {
	t.Helper()
	var patch domain.GamePatch
	require.NoError(t, json.Unmarshal([]byte(body), &patch))
	return patch
}

// --- Create ---

func TestGameService_Create_Success(t *testing.T) {
	svc, repo, notifier := newGameService(t)
	ctx := context.Background()
	game := validGame()
	key := domain.NewStringSet(game.Platforms).Key()

	repo.On("ExistsWithIdentity", ctx, "Zelda", key, uint(0)).Return(false, nil).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(g *domain.Game) bool {
		return g.Title == "Zelda" && g.PlatformKey == key
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Game).ID = 42
	}).Return(nil).Once()

	created, err := svc.Create(ctx, game)

	require.NoError(t, err)
	assert.Equal(t, uint(42), created.ID)
	assert.Equal(t, domain.StringSet{"Switch", "Wii U"}, created.Platforms, "platform order is preserved")
	assert.Equal(t, 1, notifier.calls)
}

func TestGameService_Create_ValidationFails(t *testing.T) {
	svc, repo, notifier := newGameService(t)
	game := validGame()
	game.Title = "   "
	game.Platforms = domain.StringSet{}
	game.ReleaseYear = 1900

	_, err := svc.Create(context.Background(), game)

	require.ErrorIs(t, err, service.ErrValidation)
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "titre")
	assert.Contains(t, verr.Fields, "plateforme")
	assert.Contains(t, verr.Fields, "annee_sortie")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Zero(t, notifier.calls)
}

func TestGameService_Create_Duplicate(t *testing.T) {
	t.Run("pre-check", func(t *testing.T) {
		svc, repo, notifier := newGameService(t)
		ctx := context.Background()
		repo.On("ExistsWithIdentity", ctx, "Zelda", mock.Anything, uint(0)).Return(true, nil).Once()

		_, err := svc.Create(ctx, validGame())

		var conflict *service.ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "titre", conflict.Field)
		assert.Equal(t, "Game already exists for this platform", conflict.Message)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Zero(t, notifier.calls)
	})

	t.Run("unique index race", func(t *testing.T) {
		svc, repo, _ := newGameService(t)
		ctx := context.Background()
		repo.On("ExistsWithIdentity", ctx, "Zelda", mock.Anything, uint(0)).Return(false, nil).Once()
		repo.On("Create", ctx, mock.Anything).
			Return(&repository.DuplicateEntryError{Field: "titre", Err: errors.New("1062")}).Once()

		_, err := svc.Create(ctx, validGame())

		assert.ErrorIs(t, err, service.ErrConflict)
	})
}

// --- Update ---

func TestGameService_Update_PartialPatch(t *testing.T) {
	svc, repo, notifier := newGameService(t)
	ctx := context.Background()

	stored := validGame()
	stored.ID = 3
	stored.Normalize()
	repo.On("FindByID", ctx, uint(3)).Return(stored, nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(g *domain.Game) bool {
		return g.ID == 3 && g.Finished && g.MetacriticScore == nil && g.Title == "Zelda"
	})).Return(nil).Once()

	// 没有修改标题和平台，不需要唯一性检查
	updated, err := svc.Update(ctx, 3, decodePatch(t, `{"termine": true, "metacritic_score": null}`))

	require.NoError(t, err)
	assert.True(t, updated.Finished)
	assert.Nil(t, updated.MetacriticScore)
	assert.Equal(t, "Nintendo", updated.Publisher)
	repo.AssertNotCalled(t, "ExistsWithIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, notifier.calls)
}

func TestGameService_Update_IdentityConflict(t *testing.T) {
	svc, repo, notifier := newGameService(t)
	ctx := context.Background()

	stored := validGame()
	stored.ID = 3
	stored.Normalize()
	repo.On("FindByID", ctx, uint(3)).Return(stored, nil).Once()
	repo.On("ExistsWithIdentity", ctx, "Mario", stored.PlatformKey, uint(3)).Return(true, nil).Once()

	_, err := svc.Update(ctx, 3, decodePatch(t, `{"titre": "Mario"}`))

	var conflict *service.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "titre", conflict.Field)
	assert.Equal(t, "Game with this title and platform already exists", conflict.Message)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Zero(t, notifier.calls)
}

func TestGameService_Update_NullRequiredField(t *testing.T) {
	svc, repo, _ := newGameService(t)
	ctx := context.Background()

	stored := validGame()
	stored.ID = 3
	stored.Normalize()
	repo.On("FindByID", ctx, uint(3)).Return(stored, nil).Once()

	_, err := svc.Update(ctx, 3, decodePatch(t, `{"editeur": null}`))

	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "editeur")
}

func TestGameService_Update_Errors(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		svc, repo, _ := newGameService(t)
		ctx := context.Background()
		repo.On("FindByID", ctx, uint(9)).Return(nil, repository.ErrGameNotFound).Once()

		_, err := svc.Update(ctx, 9, decodePatch(t, `{"termine": true}`))

		assert.ErrorIs(t, err, service.ErrGameNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, repo, _ := newGameService(t)
		ctx := context.Background()
		stored := validGame()
		stored.ID = 3
		repo.On("FindByID", ctx, uint(3)).Return(stored, nil).Once()
		repo.On("Update", ctx, mock.Anything).Return(errors.New("db down")).Once()

		_, err := svc.Update(ctx, 3, decodePatch(t, `{"termine": true}`))

		assert.ErrorIs(t, err, service.ErrInternalServer)
	})
}

// --- Delete / ToggleFavorite / Get / List ---

func TestGameService_Delete(t *testing.T) {
	svc, repo, notifier := newGameService(t)
	ctx := context.Background()
	snapshot := validGame()
	snapshot.ID = 4
	repo.On("Delete", ctx, uint(4)).Return(snapshot, nil).Once()
	repo.On("Delete", ctx, uint(5)).Return(nil, repository.ErrGameNotFound).Once()

	deleted, err := svc.Delete(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, uint(4), deleted.ID)

	_, err = svc.Delete(ctx, 5)
	assert.ErrorIs(t, err, service.ErrGameNotFound)
	assert.Equal(t, 1, notifier.calls)
}

func TestGameService_ToggleFavorite(t *testing.T) {
	svc, repo, notifier := newGameService(t)
	ctx := context.Background()
	repo.On("ToggleFavorite", ctx, uint(4)).Return(&domain.Game{ID: 4, Favorite: true}, nil).Once()
	repo.On("ToggleFavorite", ctx, uint(5)).Return(nil, errors.New("db down")).Once()

	game, err := svc.ToggleFavorite(ctx, 4)
	require.NoError(t, err)
	assert.True(t, game.Favorite)

	_, err = svc.ToggleFavorite(ctx, 5)
	assert.ErrorIs(t, err, service.ErrInternalServer)
	assert.Equal(t, 1, notifier.calls)
}

func TestGameService_Get(t *testing.T) {
	svc, repo, _ := newGameService(t)
	ctx := context.Background()
	repo.On("FindByID", ctx, uint(1)).Return(&domain.Game{ID: 1, Title: "Zelda"}, nil).Once()
	repo.On("FindByID", ctx, uint(2)).Return(nil, repository.ErrGameNotFound).Once()

	game, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Zelda", game.Title)

	_, err = svc.Get(ctx, 2)
	assert.ErrorIs(t, err, service.ErrGameNotFound)
}

func TestGameService_List(t *testing.T) {
	svc, repo, _ := newGameService(t)
	ctx := context.Background()
	filter := domain.GameFilter{Title: "zel"}
	repo.On("List", ctx, filter).Return(nil, nil).Once()

	games, err := svc.List(ctx, filter)

	require.NoError(t, err)
	assert.NotNil(t, games, "an empty result is an empty slice, not null")
	assert.Empty(t, games)
}
