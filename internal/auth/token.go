package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// DefaultTokenTTL 是 token 的默认有效期。
const DefaultTokenTTL = time.Hour

var (
	// ErrInvalidToken 是所有 token 校验失败的共同根错误
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenMalformed 表示 token 格式错误
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)
	// ErrTokenExpired 表示 token 已过期
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
	// ErrTokenSignature 表示签名不匹配或签名算法不被接受
	ErrTokenSignature = fmt.Errorf("%w: bad signature", ErrInvalidToken)
)

// TokenConfig 是签发/校验 token 的不可变配置，启动时构造一次后传给 TokenManager。
type TokenConfig struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenConfig 创建 TokenConfig。secret 不能为空；ttl <= 0 时使用 DefaultTokenTTL。
func NewTokenConfig(secret string, ttl time.Duration, issuer string) (TokenConfig, error) {
	if secret == "" {
		return TokenConfig{}, fmt.Errorf("JWT secret key cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return TokenConfig{secret: []byte(secret), ttl: ttl, issuer: issuer}, nil
}

// TTL 返回 token 有效期。
func (c TokenConfig) TTL() time.Duration { return c.ttl }

// Claims 是 token 携带的身份信息。
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager 使用 HS256 签发并校验 bearer token。没有刷新和吊销机制。
type TokenManager struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenManager 创建 TokenManager。
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if len(cfg.secret) == 0 {
		return nil, fmt.Errorf("token config has no secret; use NewTokenConfig")
	}
	return &TokenManager{cfg: cfg, now: time.Now}, nil
}

// Issue 为指定用户签发 token，过期时间为签发时刻 + TTL。
func (m *TokenManager) Issue(userID uint, email string) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.cfg.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.cfg.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify 解析并验证 token。签名不匹配、格式错误、缺少过期时间或已过期都会失败，
// 返回的错误都满足 errors.Is(err, ErrInvalidToken)。
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// 只接受 HMAC 签名，防止 alg 混淆攻击
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.cfg.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %v", ErrTokenSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing id claim", ErrInvalidToken)
	}
	return claims, nil
}
