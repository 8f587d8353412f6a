package login

import "github.com/j-marthe/sistema-gestion-archivos-backend/internal/user"

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"` // 邮箱
	Password string `json:"password" binding:"required" example:"Password123"`    // 密码
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string       `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // 访问令牌
	ExpiresIn   int64        `json:"expires_in" example:"28800"`                                     // 访问令牌有效期（秒）
	User        user.Profile `json:"user"`
}

// LoginResult 内部返回结果，刷新令牌只写 Cookie
type LoginResult struct {
	LoginResponse
	RefreshToken string
}
