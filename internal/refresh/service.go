package refresh

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/user"
	authsdk "github.com/j-marthe/sistema-gestion-archivos-backend/packages/auth-sdk"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

// DefaultTTL 刷新令牌默认有效期：7天
const DefaultTTL = 7 * 24 * time.Hour

// ProfileLoader 刷新时重新读取账号，角色变更立即生效
type ProfileLoader interface {
	GetByID(ctx context.Context, id string) (*user.Profile, error)
}

// RefreshTokenService 刷新令牌签发、轮换与撤销
// store 为 nil 表示未配置 Redis，只签发访问令牌
type RefreshTokenService struct {
	store  Store
	issuer *authsdk.Issuer
	users  ProfileLoader
	ttl    time.Duration
	logger *zap.Logger
}

func NewRefreshTokenService(store Store, issuer *authsdk.Issuer, users ProfileLoader, ttl time.Duration, logger *zap.Logger) *RefreshTokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RefreshTokenService{store: store, issuer: issuer, users: users, ttl: ttl, logger: logger}
}

// Enabled 是否支持刷新令牌
func (s *RefreshTokenService) Enabled() bool {
	return s.store != nil
}

// TTL 刷新令牌有效期
func (s *RefreshTokenService) TTL() time.Duration {
	return s.ttl
}

func errDisabled() error {
	return response.DependencyError("未配置会话存储，不支持刷新令牌", nil)
}

// Issue 为账号生成新的刷新令牌
func (s *RefreshTokenService) Issue(ctx context.Context, userID string) (string, error) {
	if !s.Enabled() {
		return "", errDisabled()
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return "", response.DependencyError("生成刷新令牌失败", err)
	}
	if err := s.store.Create(ctx, token, TokenData{UserID: userID}, s.ttl); err != nil {
		return "", response.DependencyError("存储刷新令牌失败", err)
	}
	return token, nil
}

// Rotate 校验旧令牌，撤销后签发新的访问令牌与刷新令牌
func (s *RefreshTokenService) Rotate(ctx context.Context, token string) (*Result, error) {
	if !s.Enabled() {
		return nil, errDisabled()
	}
	invalid := response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage("刷新令牌无效或已过期"),
	)
	if token == "" {
		return nil, invalid
	}

	// 1. 验证 refresh token
	data, err := s.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, invalid
		}
		return nil, response.DependencyError("读取刷新令牌失败", err)
	}

	// 2. 账号已删除时令牌一并作废
	profile, err := s.users.GetByID(ctx, data.UserID)
	if err != nil {
		if response.IsCode(err, response.NotFound) {
			_ = s.store.Delete(ctx, token)
			return nil, invalid
		}
		return nil, err
	}

	// 3. 撤销旧的 refresh token
	if err := s.store.Delete(ctx, token); err != nil {
		return nil, response.DependencyError("撤销旧令牌失败", err)
	}

	// 4. 生成新的 access token
	accessToken, err := s.issuer.Issue(authsdk.UserContext{
		UserID: profile.ID,
		Name:   profile.Name,
		Email:  profile.Email,
		Role:   profile.Role,
	})
	if err != nil {
		return nil, response.DependencyError("生成访问令牌失败", err)
	}

	// 5. 生成并存储新的 refresh token
	newToken, err := s.Issue(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	return &Result{
		AccessToken:  accessToken,
		RefreshToken: newToken,
		ExpiresIn:    int64(s.issuer.TTL().Seconds()),
	}, nil
}

// Revoke 撤销单个刷新令牌
func (s *RefreshTokenService) Revoke(ctx context.Context, token string) error {
	if !s.Enabled() {
		return errDisabled()
	}
	if token == "" {
		return nil
	}
	if err := s.store.Delete(ctx, token); err != nil {
		return response.DependencyError("撤销令牌失败", err)
	}
	return nil
}

// RevokeAll 撤销账号的全部刷新令牌，未配置存储时忽略
func (s *RefreshTokenService) RevokeAll(ctx context.Context, userID string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.store.DeleteAllByUserID(ctx, userID); err != nil {
		return response.DependencyError("撤销令牌失败", err)
	}
	s.logger.Info("已撤销账号全部会话", zap.String("user_id", userID))
	return nil
}

// GenerateRandomToken 生成随机令牌字符串
func GenerateRandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("生成随机令牌失败: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
