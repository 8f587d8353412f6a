package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 角色名称（固定集合，迁移时写入 roles 表）
const (
	RoleAdministrator = "Administrator"
	RoleStandard      = "Standard User"
	RoleReader        = "Reader"
)

// DefaultRoles 需要预置的角色
var DefaultRoles = []string{RoleAdministrator, RoleStandard, RoleReader}

// Role 角色查找表
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

// User 账号
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	RegisteredAt time.Time `gorm:"not null" json:"registered_at"`
	RoleID       uint      `gorm:"not null;index" json:"role_id"`
	Role         Role      `gorm:"foreignKey:RoleID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = tx.NowFunc()
	}
	return nil
}
