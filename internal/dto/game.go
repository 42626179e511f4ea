package dto

import "github.com/Nyoote/myGames/internal/domain"

// CreateGameRequest 是新增游戏的请求体。字段规则由 validation 包统一检查，
// 这里只负责 JSON 解码，因此没有 binding 标签。
type CreateGameRequest struct {
	Title           string   `json:"titre"`
	Genres          []string `json:"genre"`
	Platforms       []string `json:"plateforme"`
	Publisher       string   `json:"editeur"`
	Developer       string   `json:"developpeur"`
	ReleaseYear     int      `json:"annee_sortie"`
	MetacriticScore *int     `json:"metacritic_score"`
	PlayTimeHours   *float64 `json:"temps_jeu_heures"` // 缺失时为 0
	Finished        *bool    `json:"termine"`          // 缺失时为 false
	Favorite        *bool    `json:"favori"`           // 缺失时为 false
}

// ToGame 转换为领域模型，缺失的可选字段取默认值
func (r CreateGameRequest) ToGame() *domain.Game {
	game := &domain.Game{
		Title:           r.Title,
		Genres:          domain.StringSet(r.Genres),
		Platforms:       domain.StringSet(r.Platforms),
		Publisher:       r.Publisher,
		Developer:       r.Developer,
		ReleaseYear:     r.ReleaseYear,
		MetacriticScore: r.MetacriticScore,
	}
	if r.PlayTimeHours != nil {
		game.PlayTimeHours = *r.PlayTimeHours
	}
	if r.Finished != nil {
		game.Finished = *r.Finished
	}
	if r.Favorite != nil {
		game.Favorite = *r.Favorite
	}
	return game
}

// GameMessageResponse 是写操作成功后的响应
type GameMessageResponse struct {
	Message string       `json:"message"`
	Game    *domain.Game `json:"game"`
}

// MessageResponse 只包含一条提示信息
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse 是 400 校验失败的响应，errors 以 JSON 字段名为键
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ConflictResponse 是 409 的响应，field 指出冲突的字段
type ConflictResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}
