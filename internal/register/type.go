package register

import "github.com/j-marthe/sistema-gestion-archivos-backend/internal/user"

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name            string `json:"name" binding:"required" example:"Alice"`                   // 显示名称
	Email           string `json:"email" binding:"required" example:"alice@example.com"`      // 邮箱
	Password        string `json:"password" binding:"required" example:"Password123"`         // 密码
	ConfirmPassword string `json:"confirm_password" binding:"required" example:"Password123"` // 确认密码
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	User user.Profile `json:"user"`
}
