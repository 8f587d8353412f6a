package document

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 大小写不敏感的包含匹配参数
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// SearchIDs 组合过滤条件，返回匹配的文档 ID（去重，按上传时间倒序）
// 标签条件为 OR：文档拥有任意一个给定标签即匹配
func (r *DocumentRepository) SearchIDs(ctx context.Context, filter SearchFilter) ([]string, error) {
	query := r.db.WithContext(ctx).
		Table("documents AS d").
		Select("DISTINCT d.id, d.uploaded_at").
		Joins("JOIN users AS u ON u.id = d.owner_id").
		Joins("JOIN categories AS c ON c.id = d.category_id")

	query = applySearchFilter(query, filter)

	type idRow struct {
		ID         string
		UploadedAt time.Time
	}
	var rows []idRow
	if err := query.Order("d.uploaded_at DESC").Order("d.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func applySearchFilter(query *gorm.DB, filter SearchFilter) *gorm.DB {
	if filter.Name != "" {
		query = query.Where(`LOWER(d.name) LIKE ? ESCAPE '\'`, containsPattern(filter.Name))
	}
	if filter.Owner != "" {
		query = query.Where(`LOWER(u.name) LIKE ? ESCAPE '\'`, containsPattern(filter.Owner))
	}
	if filter.CategoryID != nil {
		query = query.Where("d.category_id = ?", *filter.CategoryID)
	}
	if len(filter.Tags) > 0 {
		names := make([]string, 0, len(filter.Tags))
		for _, tag := range filter.Tags {
			names = append(names, strings.ToLower(tag))
		}
		query = query.
			Joins("LEFT JOIN document_tags AS dt ON dt.document_id = d.id").
			Joins("LEFT JOIN tags AS t ON t.id = dt.tag_id").
			Where("LOWER(t.name) IN ?", names)
	}
	if filter.From != nil {
		query = query.Where("d.uploaded_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("d.uploaded_at <= ?", *filter.To)
	}
	if filter.Metadata != "" {
		query = query.
			Joins("LEFT JOIN document_metadata AS m ON m.document_id = d.id").
			Where(`LOWER(m.meta_value) LIKE ? ESCAPE '\'`, containsPattern(filter.Metadata))
	}
	return query
}
