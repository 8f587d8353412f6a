package user

import "time"

// Profile 对外展示的账号信息（含角色名称）
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RoleID       uint      `json:"role_id"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// CreateInput 创建账号
type CreateInput struct {
	Name     string
	Email    string
	Password string
	RoleID   uint
}

// UpdateRequest 更新账号，密码为空表示不修改
type UpdateRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"Alice"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"omitempty,min=6,max=100" example:"NewPassword1"`
}

// AssignRoleRequest 分配角色
type AssignRoleRequest struct {
	RoleID uint `json:"role_id" binding:"required" example:"2"`
}
