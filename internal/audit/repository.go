package audit

import (
	"context"

	"gorm.io/gorm"

	auditModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/audit"
)

// AuditRepository 审计记录只追加，不提供更新与删除
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *auditModel.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List 按时间倒序，关联账号名称与文档名称
func (r *AuditRepository) List(ctx context.Context, filter ListFilter) ([]entryRow, error) {
	query := r.db.WithContext(ctx).
		Table("audit_entries AS a").
		Select("a.id, a.user_id, u.name AS user_name, a.document_id, d.name AS document_name, a.action, a.detail, a.created_at").
		Joins("LEFT JOIN users AS u ON u.id = a.user_id").
		Joins("LEFT JOIN documents AS d ON d.id = a.document_id")

	if filter.From != nil {
		query = query.Where("a.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("a.created_at <= ?", *filter.To)
	}

	var rows []entryRow
	err := query.Order("a.created_at DESC").Order("a.id DESC").Scan(&rows).Error
	return rows, err
}
