package service

import (
	"errors"
	"strings"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrConflict             = errors.New("conflict")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrGameNotFound         = errors.New("game not found")
	ErrInternalServer       = errors.New("internal server error")
)

// 冲突时返回给客户端的信息
const (
	msgUsernameTaken   = "Username is already taken"
	msgEmailTaken      = "Email already exists"
	msgGameExists      = "Game already exists for this platform"
	msgGameIdentityUse = "Game with this title and platform already exists"
)

// ValidationError 携带以 JSON 字段名为键的错误信息。
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Is 让 errors.Is(err, ErrValidation) 成立。
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// ConflictError 表示违反唯一性约束，Field 是冲突的 JSON 字段名。
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Field + ": " + e.Message
}

// Is 让 errors.Is(err, ErrConflict) 成立。
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
