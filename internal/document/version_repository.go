package document

import (
	"context"

	"gorm.io/gorm"

	documentModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
)

// VersionRepository 版本仓储层
type VersionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

func (r *VersionRepository) WithTx(tx *gorm.DB) *VersionRepository {
	return &VersionRepository{db: tx}
}

func (r *VersionRepository) Create(ctx context.Context, version *documentModel.Version) error {
	return r.db.WithContext(ctx).Omit("Document").Create(version).Error
}

// NextVersionNumber 获取下一个版本号（文档维度递增，从 1 开始）
func (r *VersionRepository) NextVersionNumber(ctx context.Context, documentID string) (int, error) {
	var maxVersion int
	err := r.db.WithContext(ctx).Model(&documentModel.Version{}).
		Where("document_id = ?", documentID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&maxVersion).Error
	return maxVersion + 1, err
}

// List 文档的所有版本，按版本号升序
func (r *VersionRepository) List(ctx context.Context, documentID string) ([]documentModel.Version, error) {
	var versions []documentModel.Version
	err := r.db.WithContext(ctx).Where("document_id = ?", documentID).
		Order("version_number ASC").
		Find(&versions).Error
	return versions, err
}

func (r *VersionRepository) GetByNumber(ctx context.Context, documentID string, number int) (*documentModel.Version, error) {
	var version documentModel.Version
	err := r.db.WithContext(ctx).
		Where("document_id = ? AND version_number = ?", documentID, number).
		First(&version).Error
	return &version, err
}

// Pointers 文档所有版本的存储定位符
func (r *VersionRepository) Pointers(ctx context.Context, documentID string) ([]string, error) {
	var pointers []string
	err := r.db.WithContext(ctx).Model(&documentModel.Version{}).
		Where("document_id = ?", documentID).
		Order("version_number ASC").
		Pluck("storage_pointer", &pointers).Error
	return pointers, err
}

func (r *VersionRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&documentModel.Version{}).Error
}
