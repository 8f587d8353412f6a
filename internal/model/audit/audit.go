package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 操作类型
const (
	ActionUpload         = "Upload"
	ActionDownload       = "Download"
	ActionDelete         = "Deletion"
	ActionMetadataEdit   = "Edición de metadatos"
	ActionVersionUpload  = "Subida Versión"
	ActionVersionRestore = "Restaurar Versión"
)

// Entry 审计记录，只追加不修改
// DocumentID 不建外键，文档删除后记录仍然保留
type Entry struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	DocumentID *string   `gorm:"type:varchar(36);index" json:"document_id"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Detail     string    `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (Entry) TableName() string {
	return "audit_entries"
}

// BeforeCreate 使用 UUIDv7，同一时刻写入的记录仍可按 id 排序
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		e.ID = id.String()
	}
	return nil
}
