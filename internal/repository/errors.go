package repository

import (
	"errors"
	"fmt"
)

// 通用的存储库错误
var (
	// ErrNotFound 表示请求的记录未找到
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry 表示尝试插入或更新的数据违反了唯一约束
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// 特定资源的错误 (基于通用错误)
var (
	ErrUserNotFound = ErrNotFound
	ErrGameNotFound = ErrNotFound
)

// DuplicateEntryError 携带违反唯一约束的字段 (对外的 JSON 字段名)。
// 驱动没有给出足够信息时 Field 为空。
type DuplicateEntryError struct {
	Field string
	Err   error // 原始驱动错误
}

func (e *DuplicateEntryError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", ErrDuplicateEntry, e.Err)
	}
	return fmt.Sprintf("%s on %s: %v", ErrDuplicateEntry, e.Field, e.Err)
}

// Is 让 errors.Is(err, ErrDuplicateEntry) 成立。
func (e *DuplicateEntryError) Is(target error) bool {
	return target == ErrDuplicateEntry
}

func (e *DuplicateEntryError) Unwrap() error {
	return e.Err
}
