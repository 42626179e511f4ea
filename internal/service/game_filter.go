package service

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Nyoote/myGames/internal/domain"
)

// ParseGameFilter 把查询参数 titre, genre, plateforme, termine, annee_min, annee_max, favori
// 解析为 domain.GameFilter。
//   - 文本参数为空字符串等同于缺失
//   - termine 只识别 "true" 和 "false"，其他值不过滤
//   - annee_min / annee_max 不是整数时返回 *ValidationError
//   - favori 为真值 (strconv.ParseBool) 时只返回收藏
func ParseGameFilter(q url.Values) (domain.GameFilter, error) {
	filter := domain.GameFilter{
		Title:    q.Get("titre"),
		Genre:    q.Get("genre"),
		Platform: q.Get("plateforme"),
	}

	switch q.Get("termine") {
	case "true":
		finished := true
		filter.Finished = &finished
	case "false":
		finished := false
		filter.Finished = &finished
	}

	invalid := map[string]string{}
	if v, ok, err := parseYear(q.Get("annee_min")); err != nil {
		invalid["annee_min"] = "must be an integer"
	} else if ok {
		filter.ReleaseYearMin = &v
	}
	if v, ok, err := parseYear(q.Get("annee_max")); err != nil {
		invalid["annee_max"] = "must be an integer"
	} else if ok {
		filter.ReleaseYearMax = &v
	}
	if len(invalid) > 0 {
		return domain.GameFilter{}, newValidationError("Invalid query parameters", invalid)
	}

	if fav, err := strconv.ParseBool(q.Get("favori")); err == nil && fav {
		filter.FavoritesOnly = true
	}

	return filter, nil
}

func parseYear(raw string) (int, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
