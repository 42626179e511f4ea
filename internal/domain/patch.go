package domain

import "encoding/json"

// Optional 区分 JSON 中字段的三种状态：缺失、显式 null、有值。
type Optional[T any] struct {
	Value T
	Set   bool // 字段出现在请求体中 (包括 null)
	Null  bool // 字段显式为 null
}

// UnmarshalJSON 只有字段出现在请求体中时才会被调用，因此可以据此标记 Set。
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// GamePatch 是部分更新的请求体，每个字段都可以独立缺失或为 null。
type GamePatch struct {
	Title           Optional[string]   `json:"titre"`
	Genres          Optional[[]string] `json:"genre"`
	Platforms       Optional[[]string] `json:"plateforme"`
	Publisher       Optional[string]   `json:"editeur"`
	Developer       Optional[string]   `json:"developpeur"`
	ReleaseYear     Optional[int]      `json:"annee_sortie"`
	MetacriticScore Optional[int]      `json:"metacritic_score"`
	PlayTimeHours   Optional[float64]  `json:"temps_jeu_heures"`
	Finished        Optional[bool]     `json:"termine"`
	Favorite        Optional[bool]     `json:"favori"`
}

// TouchesIdentity 报告补丁是否修改了参与唯一约束的字段 (标题或平台)。
func (p GamePatch) TouchesIdentity() bool {
	return p.Title.Set || p.Platforms.Set
}

// ApplyTo 逐字段把补丁应用到已持久化的记录上，缺失的字段保持原值。
// null 的语义：metacritic_score 被清空；temps_jeu_heures、termine、favori 恢复默认值；
// 必填字段被置零，随后的校验会拒绝它们。
func (p GamePatch) ApplyTo(g *Game) {
	if p.Title.Set {
		g.Title = p.Title.Value
	}
	if p.Genres.Set {
		g.Genres = StringSet(p.Genres.Value)
	}
	if p.Platforms.Set {
		g.Platforms = StringSet(p.Platforms.Value)
	}
	if p.Publisher.Set {
		g.Publisher = p.Publisher.Value
	}
	if p.Developer.Set {
		g.Developer = p.Developer.Value
	}
	if p.ReleaseYear.Set {
		g.ReleaseYear = p.ReleaseYear.Value
	}
	if p.MetacriticScore.Set {
		if p.MetacriticScore.Null {
			g.MetacriticScore = nil
		} else {
			score := p.MetacriticScore.Value
			g.MetacriticScore = &score
		}
	}
	if p.PlayTimeHours.Set {
		g.PlayTimeHours = p.PlayTimeHours.Value
	}
	if p.Finished.Set {
		g.Finished = p.Finished.Value
	}
	if p.Favorite.Set {
		g.Favorite = p.Favorite.Value
	}
}
