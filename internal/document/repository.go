package document

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	documentModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
	userModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
)

// batchSize IN 查询每批的参数个数上限
const batchSize = 500

// DocumentRepository 文档、标签与元数据数据访问层
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// WithTx 绑定到事务
func (r *DocumentRepository) WithTx(tx *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

// ===== Document 基础操作 =====

func (r *DocumentRepository) Create(ctx context.Context, doc *documentModel.Document) error {
	return r.db.WithContext(ctx).Omit("Owner", "Category").Create(doc).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*documentModel.Document, error) {
	var doc documentModel.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	return &doc, err
}

// UpdateContent 更新当前生效的存储定位符
func (r *DocumentRepository) UpdateContent(ctx context.Context, id, pointer string, size int64, contentType string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&documentModel.Document{}).Where("id = ?", id).Updates(map[string]any{
		"storage_pointer": pointer,
		"size":            size,
		"content_type":    contentType,
	})
	return result.RowsAffected, result.Error
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&documentModel.Document{})
	return result.RowsAffected, result.Error
}

func (r *DocumentRepository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&documentModel.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *DocumentRepository) OwnerExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ===== 关联查询 =====

func (r *DocumentRepository) rowQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("documents AS d").
		Select("d.id, d.name, d.extension, d.storage_pointer, d.content_type, d.size, d.uploaded_at, " +
			"d.owner_id, u.name AS owner_name, d.category_id, c.name AS category_name").
		Joins("LEFT JOIN users AS u ON u.id = d.owner_id").
		Joins("LEFT JOIN categories AS c ON c.id = d.category_id")
}

func (r *DocumentRepository) GetRow(ctx context.Context, id string) (*documentRow, error) {
	var row documentRow
	err := r.rowQuery(ctx).Where("d.id = ?", id).Take(&row).Error
	return &row, err
}

// ListRows ownerID 为空时返回全部文档，按上传时间倒序
func (r *DocumentRepository) ListRows(ctx context.Context, ownerID string) ([]documentRow, error) {
	query := r.rowQuery(ctx)
	if ownerID != "" {
		query = query.Where("d.owner_id = ?", ownerID)
	}

	var rows []documentRow
	err := query.Order("d.uploaded_at DESC").Order("d.id ASC").Scan(&rows).Error
	return rows, err
}

// RowsByIDs 按 ID 集合分批查询，结果顺序与 ids 一致
func (r *DocumentRepository) RowsByIDs(ctx context.Context, ids []string) ([]documentRow, error) {
	byID := make(map[string]documentRow, len(ids))
	for _, batch := range chunk(ids, batchSize) {
		var rows []documentRow
		if err := r.rowQuery(ctx).Where("d.id IN ?", batch).Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			byID[row.ID] = row
		}
	}

	ordered := make([]documentRow, 0, len(byID))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			ordered = append(ordered, row)
		}
	}
	return ordered, nil
}

// ===== Tag =====

// EnsureTags 按名称去重创建标签，已存在的复用原有 ID
func (r *DocumentRepository) EnsureTags(ctx context.Context, names []string) ([]documentModel.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	tags := make([]documentModel.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, documentModel.Tag{Name: name, CreatedAt: now})
	}

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tags).Error
	if err != nil {
		return nil, err
	}

	var existing []documentModel.Tag
	err = db.Where("name IN ?", names).Order("name ASC").Find(&existing).Error
	return existing, err
}

func (r *DocumentRepository) LinkTags(ctx context.Context, documentID string, tags []documentModel.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	now := time.Now().UTC()
	links := make([]documentModel.DocumentTag, 0, len(tags))
	for _, tag := range tags {
		links = append(links, documentModel.DocumentTag{DocumentID: documentID, TagID: tag.ID, CreatedAt: now})
	}
	return r.db.WithContext(ctx).Omit("Document", "Tag").Create(&links).Error
}

func (r *DocumentRepository) DeleteTagLinks(ctx context.Context, documentID string) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&documentModel.DocumentTag{}).Error
}

// TagsByDocuments 批量查询标签，按名称排序
func (r *DocumentRepository) TagsByDocuments(ctx context.Context, ids []string) (map[string][]string, error) {
	type tagRow struct {
		DocumentID string
		Name       string
	}

	result := make(map[string][]string, len(ids))
	for _, batch := range chunk(ids, batchSize) {
		var rows []tagRow
		err := r.db.WithContext(ctx).
			Table("document_tags AS dt").
			Select("dt.document_id, t.name").
			Joins("JOIN tags AS t ON t.id = dt.tag_id").
			Where("dt.document_id IN ?", batch).
			Order("t.name ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			result[row.DocumentID] = append(result[row.DocumentID], row.Name)
		}
	}
	return result, nil
}

// ===== Metadata =====

func (r *DocumentRepository) InsertMetadata(ctx context.Context, documentID string, metadata map[string]string) error {
	if len(metadata) == 0 {
		return nil
	}

	entries := make([]documentModel.Metadata, 0, len(metadata))
	for key, value := range metadata {
		entries = append(entries, documentModel.Metadata{DocumentID: documentID, Key: key, Value: value})
	}
	return r.db.WithContext(ctx).Omit("Document").Create(&entries).Error
}

func (r *DocumentRepository) DeleteMetadata(ctx context.Context, documentID string) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&documentModel.Metadata{}).Error
}

// MetadataByDocuments 批量查询元数据
func (r *DocumentRepository) MetadataByDocuments(ctx context.Context, ids []string) (map[string]map[string]string, error) {
	result := make(map[string]map[string]string, len(ids))
	for _, batch := range chunk(ids, batchSize) {
		var entries []documentModel.Metadata
		if err := r.db.WithContext(ctx).Where("document_id IN ?", batch).Find(&entries).Error; err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if result[entry.DocumentID] == nil {
				result[entry.DocumentID] = make(map[string]string)
			}
			result[entry.DocumentID][entry.Key] = entry.Value
		}
	}
	return result, nil
}

func chunk(ids []string, size int) [][]string {
	var batches [][]string
	for len(ids) > size {
		batches = append(batches, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		batches = append(batches, ids)
	}
	return batches
}
