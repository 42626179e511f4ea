package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Nyoote/myGames/internal/auth"
	"github.com/Nyoote/myGames/internal/domain"
	"github.com/Nyoote/myGames/internal/metrics"
	"github.com/Nyoote/myGames/internal/repository"
)

// PasswordHasher 是 AuthService 用到的密码哈希操作，由 *auth.PasswordHasher 实现。
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
	VerifyDummy(password string) bool
}

// AuthService 负责用户注册、登录以及 bearer token 的解析。
type AuthService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   *auth.TokenManager
}

// NewAuthService 创建 AuthService 实例。
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher, tokens *auth.TokenManager) *AuthService {
	if userRepo == nil {
		panic("UserRepository cannot be nil for AuthService")
	}
	if hasher == nil || tokens == nil {
		panic("PasswordHasher and TokenManager cannot be nil for AuthService")
	}
	return &AuthService{userRepo: userRepo, hasher: hasher, tokens: tokens}
}

// Register 处理用户注册。先检查用户名再检查邮箱，冲突时不做任何哈希计算。
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = domain.NormalizeUsername(username)
	email = domain.NormalizeEmail(email)
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	user, err := s.register(ctx, logCtx, username, email, password)
	metrics.RecordAuth("register", outcomeOf(err))
	return user, err
}

func (s *AuthService) register(ctx context.Context, logCtx *logrus.Entry, username, email, password string) (*domain.User, error) {
	if err := s.checkIdentityAvailable(ctx, username, email); err != nil {
		if errors.Is(err, ErrConflict) {
			logCtx.WithError(err).Warn("Registration rejected: identity already in use")
		} else {
			logCtx.WithError(err).Error("Database error during registration pre-check")
		}
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternalServer
	}

	user := &domain.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		var dup *repository.DuplicateEntryError
		if errors.As(err, &dup) {
			// 并发注册：唯一索引拒绝了写入
			conflict := s.conflictFromDuplicate(ctx, dup, username, email)
			logCtx.WithError(err).Warn("Registration rejected by unique constraint")
			return nil, conflict
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User registered successfully")
	user.Password = ""
	return user, nil
}

// checkIdentityAvailable 按 用户名、邮箱 的顺序检查占用情况
func (s *AuthService) checkIdentityAvailable(ctx context.Context, username, email string) error {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return &ConflictError{Field: "username", Message: msgUsernameTaken}
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return ErrInternalServer
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return &ConflictError{Field: "email", Message: msgEmailTaken}
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return ErrInternalServer
	}
	return nil
}

// conflictFromDuplicate 把存储层的唯一约束错误翻译为冲突。
// 驱动没有给出字段时重新执行一次检查来确定字段。
func (s *AuthService) conflictFromDuplicate(ctx context.Context, dup *repository.DuplicateEntryError, username, email string) error {
	switch dup.Field {
	case "username":
		return &ConflictError{Field: "username", Message: msgUsernameTaken}
	case "email":
		return &ConflictError{Field: "email", Message: msgEmailTaken}
	}
	if err := s.checkIdentityAvailable(ctx, username, email); err != nil {
		return err
	}
	return &ConflictError{Field: "username", Message: msgUsernameTaken}
}

// Login 校验邮箱和密码并签发 token。
// 无论邮箱是否存在都执行一次 bcrypt 比对。
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	logCtx := logrus.WithField("email", email)

	token, user, err := s.login(ctx, logCtx, email, password)
	metrics.RecordAuth("login", outcomeOf(err))
	return token, user, err
}

func (s *AuthService) login(ctx context.Context, logCtx *logrus.Entry, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.VerifyDummy(password)
			logCtx.Warn("Login attempt failed: User not found")
			return "", nil, ErrAuthenticationFailed
		}
		logCtx.WithError(err).Error("Login attempt failed: Error finding user")
		return "", nil, ErrInternalServer
	}

	if !s.hasher.Verify(password, user.Password) {
		logCtx.WithField("user_id", user.ID).Warn("Login attempt failed: Invalid password")
		return "", nil, ErrAuthenticationFailed
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT token during login")
		return "", nil, ErrInternalServer
	}

	logCtx.WithField("user_id", user.ID).Info("User logged in successfully")
	return token, user, nil
}

// Authenticate 校验 token 并加载它所指向的用户。
// token 无效、过期或用户已不存在时返回 ErrUnauthorized，存储故障返回 ErrInternalServer。
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.authenticate(ctx, token)
	if err != nil {
		metrics.RecordAuth("token", outcomeOf(err))
	}
	return user, err
}

func (s *AuthService) authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		logrus.WithError(err).Debug("Bearer token rejected")
		return nil, ErrUnauthorized
	}

	logCtx := logrus.WithField("user_id", claims.UserID)
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Token refers to a user that no longer exists")
			return nil, ErrUnauthorized
		}
		logCtx.WithError(err).Error("Failed to load user for token")
		return nil, ErrInternalServer
	}
	return user, nil
}

// ListUsers 返回所有用户的公开视图。
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		return nil, ErrInternalServer
	}
	out := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

// outcomeOf 把服务层错误归类为指标的结果标签
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrInternalServer):
		return metrics.OutcomeError
	default:
		return metrics.OutcomeRejected
	}
}
