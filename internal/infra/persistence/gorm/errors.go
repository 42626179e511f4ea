package gormpersistence

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Nyoote/myGames/internal/repository"
)

const (
	mysqlDuplicateEntry    = 1062
	postgresUniqueViolated = "23505"
)

// uniqueFields 把唯一索引名或 表.列 映射为对外的 JSON 字段名。
// MySQL 在错误信息里给出索引名，Postgres 给出约束名，SQLite 给出 表.列。
var uniqueFields = []struct {
	token string
	field string
}{
	{"idx_users_username", "username"},
	{"users.username", "username"},
	{"idx_users_email", "email"},
	{"users.email", "email"},
	{"idx_games_title_platforms", "titre"},
	{"games.title", "titre"},
	{"games.platform_key", "titre"},
}

// asDuplicateEntry 识别三种驱动的唯一约束错误，并尽量给出冲突字段。
// 不是唯一约束错误时返回 nil。
func asDuplicateEntry(err error) *repository.DuplicateEntryError {
	if err == nil {
		return nil
	}

	var detail string
	var myErr *mysql.MySQLError
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry:
		detail = myErr.Message
	case errors.As(err, &pgErr) && pgErr.Code == postgresUniqueViolated:
		detail = pgErr.ConstraintName + " " + pgErr.Detail
	case strings.Contains(err.Error(), "UNIQUE constraint failed"): // SQLite
		detail = err.Error()
	default:
		return nil
	}

	return &repository.DuplicateEntryError{Field: uniqueField(detail), Err: err}
}

func uniqueField(detail string) string {
	detail = strings.ToLower(detail)
	for _, f := range uniqueFields {
		if strings.Contains(detail, f.token) {
			return f.field
		}
	}
	return ""
}
