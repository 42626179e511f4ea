package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyoote/myGames/internal/auth"
	"github.com/Nyoote/myGames/internal/domain"
	httpHandler "github.com/Nyoote/myGames/internal/handler/http"
	rediscache "github.com/Nyoote/myGames/internal/infra/cache/redis"
	gormpersistence "github.com/Nyoote/myGames/internal/infra/persistence/gorm"
	"github.com/Nyoote/myGames/internal/infra/setup"
	"github.com/Nyoote/myGames/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := setup.InitDB(setup.DBConfig{Driver: setup.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, setup.MigrateDB(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	hasher, err := auth.NewPasswordHasher()
	require.NoError(t, err)
	tokenCfg, err := auth.NewTokenConfig("http-test-secret", time.Hour, "mygames-test")
	require.NoError(t, err)
	tokens, err := auth.NewTokenManager(tokenCfg)
	require.NoError(t, err)

	userRepo := gormpersistence.NewGormUserRepository(db)
	gameRepo := gormpersistence.NewGormGameRepository(db)
	statsCache := rediscache.NewRedisStatsCache(redisClient, "test:")

	authService := service.NewAuthService(userRepo, hasher, tokens)
	statsService := service.NewStatsService(gameRepo, statsCache, nil, time.Minute)
	gameService := service.NewGameService(gameRepo, statsService)

	router := gin.New()
	httpHandler.RegisterRoutes(router, httpHandler.Handlers{
		Auth:  httpHandler.NewAuthHandler(authService),
		User:  httpHandler.NewUserHandler(authService),
		Game:  httpHandler.NewGameHandler(gameService),
		Stats: httpHandler.NewStatsHandler(statsService),
	}, authService)

	return &testServer{router: router, redis: mr}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// login 注册并登录一个用户，返回 token
func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/auth/register", "", gin.H{"username": "alice", "email": "Alice@Example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp httpHandler.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type gameEnvelope struct {
	Message string      `json:"message"`
	Game    domain.Game `json:"game"`
}

func zeldaPayload() gin.H {
	return gin.H{
		"titre":            "Zelda: Breath of the Wild",
		"genre":            []string{"Action", "Aventure"},
		"plateforme":       []string{"Switch", "Wii U"},
		"editeur":          "Nintendo",
		"developpeur":      "Nintendo EPD",
		"annee_sortie":     2017,
		"metacritic_score": 97,
		"temps_jeu_heures": 120,
	}
}

func TestHello(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello World!", w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	t.Run("duplicate username", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/auth/register", "", gin.H{"username": "alice", "email": "other@example.com", "password": "secret1"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"field":"username","error":"Username is already taken"}`, w.Body.String())
	})

	t.Run("duplicate email ignores case", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/auth/register", "", gin.H{"username": "bob", "email": "ALICE@example.com", "password": "secret1"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"field":"email","error":"Email already exists"}`, w.Body.String())
	})

	t.Run("invalid registration data", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/auth/register", "", gin.H{"username": "bo", "email": "not-an-email", "password": "123"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[map[string]interface{}](t, w)
		assert.Equal(t, "Invalid registration data", resp["message"])
		errs, ok := resp["errors"].(map[string]interface{})
		require.True(t, ok, w.Body.String())
		assert.Contains(t, errs, "username")
		assert.Contains(t, errs, "email")
		assert.Contains(t, errs, "password")
	})

	t.Run("wrong password", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "alice@example.com", "password": "wrong!!"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid email or password"}`, w.Body.String())
	})

	t.Run("unknown email looks the same", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "ghost@example.com", "password": "secret1"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid email or password"}`, w.Body.String())
	})

	t.Run("login missing fields", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": "alice@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("me requires token", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = s.do(t, http.MethodGet, "/api/me", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid or expired token"}`, w.Body.String())
	})

	t.Run("me", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		me := decode[domain.PublicUser](t, w)
		assert.Equal(t, "alice", me.Username)
		assert.Equal(t, "alice@example.com", me.Email)
		assert.NotZero(t, me.ID)
	})

	t.Run("users never expose hashes", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/getUsers", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
		users := decode[[]domain.PublicUser](t, w)
		require.Len(t, users, 1)
		assert.Equal(t, "alice", users[0].Username)
	})
}

func TestGameLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	w := s.do(t, http.MethodPost, "/api/addGame", token, zeldaPayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[gameEnvelope](t, w)
	assert.Equal(t, "Game created successfully", created.Message)
	assert.Equal(t, domain.StringSet{"Switch", "Wii U"}, created.Game.Platforms)
	assert.False(t, created.Game.Favorite)
	assert.False(t, created.Game.Finished)
	id := created.Game.ID
	require.NotZero(t, id)

	t.Run("duplicate with reordered platforms", func(t *testing.T) {
		payload := zeldaPayload()
		payload["plateforme"] = []string{"Wii U", "Switch"}
		w := s.do(t, http.MethodPost, "/api/addGame", token, payload)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"field":"titre","error":"Game already exists for this platform"}`, w.Body.String())
	})

	t.Run("same title on other platforms is allowed", func(t *testing.T) {
		payload := zeldaPayload()
		payload["plateforme"] = []string{"Switch"}
		payload["favori"] = true
		w := s.do(t, http.MethodPost, "/api/addGame", token, payload)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("validation errors are keyed by json name", func(t *testing.T) {
		payload := zeldaPayload()
		delete(payload, "titre")
		payload["annee_sortie"] = 1900
		w := s.do(t, http.MethodPost, "/api/addGame", token, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[map[string]interface{}](t, w)
		assert.Equal(t, "Validation error while creating game", resp["message"])
		errs := resp["errors"].(map[string]interface{})
		assert.Contains(t, errs, "titre")
		assert.Contains(t, errs, "annee_sortie")
	})

	t.Run("filters", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/getGames?titre=ZELDA&plateforme=wii", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		games := decode[[]domain.Game](t, w)
		require.Len(t, games, 1)
		assert.Equal(t, id, games[0].ID)

		w = s.do(t, http.MethodGet, "/api/getGames?favori=true", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]domain.Game](t, w), 1)

		w = s.do(t, http.MethodGet, "/api/getGames?annee_min=2018", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())

		w = s.do(t, http.MethodGet, "/api/getGames?annee_min=abc", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, fmt.Sprintf("/api/games/%d", id), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Zelda: Breath of the Wild", decode[domain.Game](t, w).Title)

		w = s.do(t, http.MethodGet, "/api/games/not-a-number", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, fmt.Sprintf("/api/updateGame/%d", id), token, `{"termine":true,"metacritic_score":null}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decode[gameEnvelope](t, w)
		assert.Equal(t, "Game updated successfully", updated.Message)
		assert.True(t, updated.Game.Finished)
		assert.Nil(t, updated.Game.MetacriticScore)
		assert.Equal(t, created.Game.Title, updated.Game.Title)
		assert.Equal(t, created.Game.Genres, updated.Game.Genres)
		assert.Equal(t, created.Game.Platforms, updated.Game.Platforms)
		assert.Equal(t, created.Game.PlayTimeHours, updated.Game.PlayTimeHours)
	})

	t.Run("empty patch", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, fmt.Sprintf("/api/updateGame/%d", id), token, nil)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("patch into another record's identity", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, fmt.Sprintf("/api/updateGame/%d", id), token, gin.H{"plateforme": []string{"Switch"}})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"field":"titre","error":"Game with this title and platform already exists"}`, w.Body.String())
	})

	t.Run("patch unknown id", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/updateGame/9999", token, gin.H{"termine": true})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Game not found"}`, w.Body.String())
	})

	t.Run("oversized bodies are rejected", func(t *testing.T) {
		huge := `{"titre":"` + strings.Repeat("a", httpHandler.MaxBodyBytes) + `"}`

		w := s.do(t, http.MethodPatch, fmt.Sprintf("/api/updateGame/%d", id), token, huge)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.JSONEq(t, `{"message":"Request body too large"}`, w.Body.String())

		w = s.do(t, http.MethodPost, "/api/addGame", token, huge)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

		w = s.do(t, http.MethodGet, fmt.Sprintf("/api/games/%d", id), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, created.Game.Title, decode[domain.Game](t, w).Title)
	})

	t.Run("toggle favorite twice", func(t *testing.T) {
		path := fmt.Sprintf("/api/games/%d/favorite", id)
		w := s.do(t, http.MethodPost, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode[gameEnvelope](t, w).Game.Favorite)

		w = s.do(t, http.MethodPost, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, decode[gameEnvelope](t, w).Game.Favorite)

		w = s.do(t, http.MethodPost, "/api/games/9999/favorite", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("stats", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/stats", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		stats := decode[domain.GameStats](t, w)
		assert.EqualValues(t, 2, stats.TotalGames)
		assert.EqualValues(t, 1, stats.FinishedGames)
		assert.EqualValues(t, 1, stats.FavoriteCount)
		require.NotNil(t, stats.AvgMetacritic)
		assert.Equal(t, 97.0, *stats.AvgMetacritic)
		assert.True(t, s.redis.Exists("test:games:stats"))
	})

	t.Run("delete", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/deleteGame/9999", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/deleteGame/%d", id), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		deleted := decode[gameEnvelope](t, w)
		assert.Equal(t, "Game deleted successfully", deleted.Message)
		assert.Equal(t, id, deleted.Game.ID)
		assert.False(t, s.redis.Exists("test:games:stats"))

		w = s.do(t, http.MethodGet, fmt.Sprintf("/api/games/%d", id), token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
