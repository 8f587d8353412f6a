// Package document 文档、版本、标签、元数据与分类模型
package document

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
)

// Category 分类（平铺的查找表）
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Document 文档基础信息表
type Document struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string `gorm:"type:varchar(255);not null;index" json:"name"`
	Extension string `gorm:"type:varchar(20)" json:"extension"`
	// 指向当前生效版本的存储定位符
	StoragePointer string    `gorm:"type:varchar(1024);not null" json:"storage_pointer"`
	ContentType    string    `gorm:"type:varchar(255)" json:"content_type"`
	Size           int64     `json:"size"`
	UploadedAt     time.Time `gorm:"not null;index" json:"uploaded_at"`
	OwnerID        string    `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	CategoryID     uint      `gorm:"not null;index" json:"category_id"`

	Owner    user.User `gorm:"foreignKey:OwnerID" json:"-"`
	Category Category  `gorm:"foreignKey:CategoryID" json:"-"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = tx.NowFunc()
	}
	return nil
}

// Version 文档版本历史表，版本号在 document_id 下从 1 递增
type Version struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	DocumentID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_document_version_unique" json:"document_id"`
	VersionNumber  int       `gorm:"not null;uniqueIndex:idx_document_version_unique" json:"version_number"`
	StoragePointer string    `gorm:"type:varchar(1024);not null" json:"storage_pointer"`
	Size           int64     `json:"size"`
	ContentType    string    `gorm:"type:varchar(255)" json:"content_type"`
	CreatedBy      string    `gorm:"type:varchar(36);not null;index" json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`

	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Version) TableName() string {
	return "document_versions"
}

func (v *Version) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Tag 标签表，名称全局唯一
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentTag 文档-标签关联表
type DocumentTag struct {
	DocumentID string    `gorm:"type:varchar(36);primaryKey" json:"document_id"`
	TagID      uint      `gorm:"primaryKey;index" json:"tag_id"`
	CreatedAt  time.Time `json:"created_at"`

	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
	Tag      Tag      `gorm:"foreignKey:TagID" json:"-"`
}

// Metadata 文档级键值对，同一文档内键唯一
type Metadata struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	DocumentID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_document_metadata_key" json:"document_id"`
	Key        string `gorm:"column:meta_key;type:varchar(100);not null;uniqueIndex:idx_document_metadata_key" json:"key"`
	Value      string `gorm:"column:meta_value;type:text;not null" json:"value"`

	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Metadata) TableName() string {
	return "document_metadata"
}

func (m *Metadata) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
