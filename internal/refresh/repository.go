package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/database"
)

const (
	// RefreshToken Redis key 前缀
	RefreshTokenPrefix = "refresh_token:"
	// 用户的 RefreshToken 集合 key 前缀（用于撤销用户的所有 session）
	UserRefreshTokensPrefix = "user_refresh_tokens:"
)

// ErrTokenNotFound 令牌不存在或已过期
var ErrTokenNotFound = errors.New("refresh token not found")

// TokenData 令牌数据结构
type TokenData struct {
	UserID string
}

// Store 刷新令牌存储
type Store interface {
	Create(ctx context.Context, token string, data TokenData, ttl time.Duration) error
	Get(ctx context.Context, token string) (*TokenData, error)
	Delete(ctx context.Context, token string) error
	DeleteAllByUserID(ctx context.Context, userID string) error
}

// RedisStore 基于 Redis 的刷新令牌存储
type RedisStore struct {
	redis *database.RedisClient
}

func NewRedisStore(redisClient *database.RedisClient) *RedisStore {
	return &RedisStore{redis: redisClient}
}

// Create 存储令牌并加入用户的令牌集合
func (r *RedisStore) Create(ctx context.Context, token string, data TokenData, ttl time.Duration) error {
	key := RefreshTokenPrefix + token
	userTokensKey := UserRefreshTokensPrefix + data.UserID

	pipe := r.redis.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{"user_id": data.UserID})
	pipe.Expire(ctx, key, ttl)
	pipe.SAdd(ctx, userTokensKey, token)
	pipe.Expire(ctx, userTokensKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("存储令牌失败: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (*TokenData, error) {
	tokenData, err := r.redis.HGetAll(ctx, RefreshTokenPrefix+token).Result()
	if err != nil {
		return nil, fmt.Errorf("获取令牌信息失败: %w", err)
	}
	userID, ok := tokenData["user_id"]
	if !ok || userID == "" {
		return nil, ErrTokenNotFound
	}
	return &TokenData{UserID: userID}, nil
}

// Delete 删除令牌，不存在时不报错
func (r *RedisStore) Delete(ctx context.Context, token string) error {
	key := RefreshTokenPrefix + token

	userID, err := r.redis.HGet(ctx, key, "user_id").Result()
	if err == nil && userID != "" {
		r.redis.SRem(ctx, UserRefreshTokensPrefix+userID, token)
	}

	if err := r.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("撤销令牌失败: %w", err)
	}
	return nil
}

// DeleteAllByUserID 删除用户的所有刷新令牌（修改密码、删除账号等场景）
func (r *RedisStore) DeleteAllByUserID(ctx context.Context, userID string) error {
	userTokensKey := UserRefreshTokensPrefix + userID

	tokens, err := r.redis.SMembers(ctx, userTokensKey).Result()
	if err != nil {
		return fmt.Errorf("获取用户令牌列表失败: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, RefreshTokenPrefix+token)
	}
	keys = append(keys, userTokensKey)

	if err := r.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("删除用户令牌失败: %w", err)
	}
	return nil
}
