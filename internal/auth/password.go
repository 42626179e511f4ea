// Package auth 提供密码哈希与 JWT 签发/校验。
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost 是固定的 bcrypt 工作因子。
const PasswordCost = 10

// PasswordHasher 负责密码的单向加盐哈希与比对。
type PasswordHasher struct {
	cost      int
	dummyHash []byte // 用户不存在时用于比对的哈希，保证两条路径耗时一致
}

// NewPasswordHasher 创建 PasswordHasher，并用同样的工作因子预先计算一个 dummy 哈希。
func NewPasswordHasher() (*PasswordHasher, error) {
	return newPasswordHasher(PasswordCost)
}

func newPasswordHasher(cost int) (*PasswordHasher, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate dummy password: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to precompute dummy hash: %w", err)
	}
	return &PasswordHasher{cost: cost, dummyHash: dummy}, nil
}

// Hash 使用 bcrypt 对密码进行哈希处理，每次调用使用新的盐。
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// Verify 验证提供的密码是否与存储的哈希匹配。
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyDummy 对预计算的 dummy 哈希做一次完整比对，结果总是 false。
// 用于"用户不存在"的路径，防止通过响应耗时枚举邮箱。
func (h *PasswordHasher) VerifyDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
	return false
}
