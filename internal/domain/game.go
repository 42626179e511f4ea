package domain

import (
	"bytes"
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// 年份下限，上限为当前年份 + 1 (由 validation 包检查)
const MinReleaseYear = 1950

// Game 表示用户收藏中的一条游戏记录。
// JSON 字段名沿用前端约定的法语字段。
type Game struct {
	ID              uint      `gorm:"primaryKey" json:"_id"`
	Title           string    `gorm:"type:varchar(191);not null;index:idx_games_title_platforms,unique,priority:1" json:"titre" validate:"required,max=191"`
	Genres          StringSet `gorm:"not null" json:"genre" validate:"required,min=1,dive,required"`
	Platforms       StringSet `gorm:"not null" json:"plateforme" validate:"required,min=1,dive,required"`
	PlatformKey     string    `gorm:"type:varchar(64);not null;index:idx_games_title_platforms,unique,priority:2" json:"-"` // 平台集合的规范化摘要，参与唯一索引
	Publisher       string    `gorm:"type:varchar(191);not null" json:"editeur" validate:"required,max=191"`
	Developer       string    `gorm:"type:varchar(191);not null" json:"developpeur" validate:"required,max=191"`
	ReleaseYear     int       `gorm:"not null;index" json:"annee_sortie" validate:"releaseyear"`
	MetacriticScore *int      `json:"metacritic_score" validate:"omitempty,min=0,max=100"` // 可为空
	PlayTimeHours   float64   `gorm:"not null;default:0" json:"temps_jeu_heures" validate:"gte=0"`
	Finished        bool      `gorm:"not null;default:false;index" json:"termine"`
	Favorite        bool      `gorm:"not null;default:false" json:"favori"`
	TitleSearch     string    `gorm:"type:text" json:"-"` // 以下三列是小写化的检索文本，由 Normalize 维护
	GenresSearch    string    `gorm:"type:text" json:"-"`
	PlatformsSearch string    `gorm:"type:text" json:"-"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Normalize 清理用户输入：去除字符串首尾空白，集合去重，并重新计算平台摘要和检索列。
// 写入存储之前必须调用。
func (g *Game) Normalize() {
	g.Title = strings.TrimSpace(g.Title)
	g.Publisher = strings.TrimSpace(g.Publisher)
	g.Developer = strings.TrimSpace(g.Developer)
	g.Genres = NewStringSet(g.Genres)
	g.Platforms = NewStringSet(g.Platforms)
	g.PlatformKey = g.Platforms.Key()
	g.TitleSearch = SearchFold(g.Title)
	g.GenresSearch = g.Genres.searchText()
	g.PlatformsSearch = g.Platforms.searchText()
}

// SearchFold 是检索列和查询条件共用的大小写折叠。
// 折叠在 Go 中完成，不依赖各数据库 LOWER() 对非 ASCII 字符的支持。
func SearchFold(s string) string {
	return strings.ToLower(s)
}

// searchText 把集合元素折叠后按行拼接。
func (s StringSet) searchText() string {
	folded := make([]string, len(s))
	for i, v := range s {
		folded[i] = SearchFold(v)
	}
	return strings.Join(folded, "\n")
}

// StringSet 是一个保持插入顺序、无重复元素的字符串集合，以 JSON 文本存储。
type StringSet []string

// NewStringSet 去除元素首尾空白，丢弃空元素与重复元素，保留首次出现的顺序。
func NewStringSet(values []string) StringSet {
	set := make(StringSet, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		set = append(set, v)
	}
	return set
}

// Key 返回与元素顺序无关的集合摘要：排序后的 JSON 的 sha256 十六进制值。
// 两个集合元素相同 (忽略顺序) 时 Key 相同。
func (s StringSet) Key() string {
	sorted := append([]string(nil), s...)
	sort.Strings(sorted)
	raw, _ := marshalNoEscape(sorted)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// GormDataType 让 GORM 以 text 列存储集合。
func (StringSet) GormDataType() string {
	return "text"
}

// Value 实现 driver.Valuer，序列化为 JSON 数组文本。
func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		s = StringSet{}
	}
	raw, err := marshalNoEscape([]string(s))
	if err != nil {
		return nil, fmt.Errorf("domain: marshal string set: %w", err)
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner。
func (s *StringSet) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("domain: cannot scan %T into StringSet", src)
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("domain: unmarshal string set: %w", err)
	}
	*s = values
	return nil
}

// marshalNoEscape 与 json.Marshal 相同，但不转义 HTML 字符，保证存储文本可被子串匹配。
func marshalNoEscape(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// GameFilter 描述列表查询的过滤条件，所有条件以 AND 组合。
// 零值表示不过滤。
type GameFilter struct {
	Title          string // 标题子串，大小写不敏感
	Genre          string // 类型子串，大小写不敏感
	Platform       string // 平台子串，大小写不敏感
	Finished       *bool  // nil 表示不过滤
	ReleaseYearMin *int   // 包含
	ReleaseYearMax *int   // 包含
	FavoritesOnly  bool
}

// GameStats 是游戏收藏的聚合统计。
type GameStats struct {
	TotalGames      int64    `json:"totalGames"`
	FinishedGames   int64    `json:"finishedGames"`
	UnfinishedGames int64    `json:"unfinishedGames"`
	TotalPlaytime   float64  `json:"totalPlaytime"`
	AvgMetacritic   *float64 `json:"avgMetacritic"` // 没有任何评分时为 null
	FavoriteCount   int64    `json:"favoriteCount"`
}
