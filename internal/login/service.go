package login

import (
	"context"

	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/refresh"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/user"
	authsdk "github.com/j-marthe/sistema-gestion-archivos-backend/packages/auth-sdk"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

type LoginService struct {
	users    *user.UserService
	issuer   *authsdk.Issuer
	sessions *refresh.RefreshTokenService
	logger   *zap.Logger
}

func NewLoginService(users *user.UserService, issuer *authsdk.Issuer, sessions *refresh.RefreshTokenService, logger *zap.Logger) *LoginService {
	return &LoginService{users: users, issuer: issuer, sessions: sessions, logger: logger}
}

// Login 邮箱密码登录
func (s *LoginService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	// 1. 校验凭据
	profile, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 签发访问令牌
	accessToken, err := s.issuer.Issue(authsdk.UserContext{
		UserID: profile.ID,
		Name:   profile.Name,
		Email:  profile.Email,
		Role:   profile.Role,
	})
	if err != nil {
		return nil, response.DependencyError("生成访问令牌失败", err)
	}

	result := &LoginResult{
		LoginResponse: LoginResponse{
			AccessToken: accessToken,
			ExpiresIn:   int64(s.issuer.TTL().Seconds()),
			User:        *profile,
		},
	}

	// 3. 配置了会话存储时签发刷新令牌
	if s.sessions != nil && s.sessions.Enabled() {
		refreshToken, err := s.sessions.Issue(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
		result.RefreshToken = refreshToken
	}

	s.logger.Info("登录成功", zap.String("user_id", profile.ID), zap.String("role", profile.Role))
	return result, nil
}
