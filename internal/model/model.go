package model

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/audit"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
)

func InitTable(db *gorm.DB) error {
	// 自动迁移数据库表结构
	err := db.AutoMigrate(
		// 用户模型
		&user.Role{},
		&user.User{},
		// 文档相关模型
		&document.Category{},
		&document.Document{},
		&document.Version{},
		&document.Tag{},
		&document.DocumentTag{},
		&document.Metadata{},
		// 审计
		&audit.Entry{},
	)
	if err != nil {
		return err
	}
	return SeedRoles(db)
}

// SeedRoles 预置角色，已存在的跳过
func SeedRoles(db *gorm.DB) error {
	roles := make([]user.Role, 0, len(user.DefaultRoles))
	for _, name := range user.DefaultRoles {
		roles = append(roles, user.Role{Name: name})
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&roles).Error
}
