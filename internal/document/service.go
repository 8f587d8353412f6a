// Package document 文档目录：上传、下载、删除、元数据、版本历史与搜索
package document

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	auditModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/audit"
	documentModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/storage"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/database"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

const defaultContentType = "application/octet-stream"

// AuditRecorder 审计日志写入
type AuditRecorder interface {
	Record(ctx context.Context, actorID, documentID, action, detail string) error
	RecordBestEffort(ctx context.Context, actorID, documentID, action, detail string)
}

type DocumentService struct {
	db       *gorm.DB
	docs     *DocumentRepository
	versions *VersionRepository
	store    storage.Storage
	audit    AuditRecorder
	logger   *zap.Logger
}

func NewDocumentService(
	db *gorm.DB,
	docs *DocumentRepository,
	versions *VersionRepository,
	store storage.Storage,
	audit AuditRecorder,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		db:       db,
		docs:     docs,
		versions: versions,
		store:    store,
		audit:    audit,
		logger:   logger,
	}
}

// ===== 上传 =====

// Upload 写入对象存储后，在一个事务内创建文档、版本 1、标签关联与元数据
// 事务失败时删除已写入的对象
func (s *DocumentService) Upload(ctx context.Context, in UploadInput) (*DocumentDetail, error) {
	// 1. 参数校验
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, response.ValidationError("文档名称不能为空")
	}
	if in.Content == nil || in.Size == 0 {
		return nil, response.ValidationError("文件内容不能为空")
	}
	extension := normalizeExtension(in.Extension, name)
	tags := normalizeTags(in.Tags)
	metadata, err := normalizeMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}

	// 2. 分类必须存在
	exists, err := s.docs.CategoryExists(ctx, in.CategoryID)
	if err != nil {
		return nil, response.DependencyError("查询分类失败", err)
	}
	if !exists {
		return nil, response.NotFoundError("分类不存在")
	}

	// 3. 写入对象存储
	contentType := contentTypeOrDefault(in.ContentType)
	objectName := storage.NewObjectName(extension)
	pointer, err := s.store.Put(ctx, objectName, in.Content, in.Size, contentType)
	if err != nil {
		return nil, response.DependencyError("文件存储失败", err)
	}

	// 4. 事务内写入关系数据
	doc := &documentModel.Document{
		Name:           name,
		Extension:      extension,
		StoragePointer: pointer,
		ContentType:    contentType,
		Size:           in.Size,
		OwnerID:        in.OwnerID,
		CategoryID:     in.CategoryID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		docs := s.docs.WithTx(tx)
		if err := docs.Create(ctx, doc); err != nil {
			return err
		}

		if err := s.versions.WithTx(tx).Create(ctx, &documentModel.Version{
			DocumentID:     doc.ID,
			VersionNumber:  1,
			StoragePointer: pointer,
			Size:           in.Size,
			ContentType:    contentType,
			CreatedBy:      in.OwnerID,
			CreatedAt:      doc.UploadedAt,
		}); err != nil {
			return err
		}

		tagRows, err := docs.EnsureTags(ctx, tags)
		if err != nil {
			return err
		}
		if err := docs.LinkTags(ctx, doc.ID, tagRows); err != nil {
			return err
		}
		return docs.InsertMetadata(ctx, doc.ID, metadata)
	})
	if err != nil {
		s.discardObject(ctx, objectName)
		if database.IsForeignKeyViolation(err) {
			return nil, response.NotFoundError("账号或分类不存在")
		}
		return nil, response.DependencyError("文档保存失败", err)
	}

	s.audit.RecordBestEffort(ctx, in.OwnerID, doc.ID, auditModel.ActionUpload, fileName(name, extension))
	s.logger.Info("文档已上传",
		zap.String("document_id", doc.ID),
		zap.String("owner_id", in.OwnerID),
		zap.Int64("size", in.Size),
	)
	return s.Detail(ctx, doc.ID)
}

// ===== 查询 =====

// Detail 文档详情：基础信息、标签、元数据与版本历史
func (s *DocumentService) Detail(ctx context.Context, id string) (*DocumentDetail, error) {
	row, err := s.docs.GetRow(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, response.NotFoundError("文档不存在")
		}
		return nil, response.DependencyError("查询文档失败", err)
	}

	views, err := s.assemble(ctx, []documentRow{*row})
	if err != nil {
		return nil, err
	}

	versions, err := s.versions.List(ctx, id)
	if err != nil {
		return nil, response.DependencyError("查询版本失败", err)
	}

	return &DocumentDetail{DocumentView: views[0], Versions: versions}, nil
}

// List 所有文档
func (s *DocumentService) List(ctx context.Context) ([]DocumentView, error) {
	rows, err := s.docs.ListRows(ctx, "")
	if err != nil {
		return nil, response.DependencyError("查询文档列表失败", err)
	}
	return s.assemble(ctx, rows)
}

// ListByOwner 某个账号上传的文档
func (s *DocumentService) ListByOwner(ctx context.Context, ownerID string) ([]DocumentView, error) {
	exists, err := s.docs.OwnerExists(ctx, ownerID)
	if err != nil {
		return nil, response.DependencyError("查询账号失败", err)
	}
	if !exists {
		return nil, response.NotFoundError("账号不存在")
	}

	rows, err := s.docs.ListRows(ctx, ownerID)
	if err != nil {
		return nil, response.DependencyError("查询文档列表失败", err)
	}
	return s.assemble(ctx, rows)
}

// Search 多条件搜索，先取去重后的文档 ID，再批量补全标签与元数据
func (s *DocumentService) Search(ctx context.Context, filter SearchFilter) ([]DocumentView, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, response.ValidationError("开始时间不能晚于结束时间")
	}
	filter.Name = strings.TrimSpace(filter.Name)
	filter.Owner = strings.TrimSpace(filter.Owner)
	filter.Metadata = strings.TrimSpace(filter.Metadata)
	filter.Tags = normalizeTags(filter.Tags)

	ids, err := s.docs.SearchIDs(ctx, filter)
	if err != nil {
		return nil, response.DependencyError("搜索文档失败", err)
	}
	if len(ids) == 0 {
		return []DocumentView{}, nil
	}

	rows, err := s.docs.RowsByIDs(ctx, ids)
	if err != nil {
		return nil, response.DependencyError("搜索文档失败", err)
	}
	return s.assemble(ctx, rows)
}

// assemble 按 ID 集合批量补全标签与元数据，避免逐个文档查询
func (s *DocumentService) assemble(ctx context.Context, rows []documentRow) ([]DocumentView, error) {
	views := make([]DocumentView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	tags, err := s.docs.TagsByDocuments(ctx, ids)
	if err != nil {
		return nil, response.DependencyError("查询标签失败", err)
	}
	metadata, err := s.docs.MetadataByDocuments(ctx, ids)
	if err != nil {
		return nil, response.DependencyError("查询元数据失败", err)
	}

	for _, row := range rows {
		view := row.toView()
		if t, ok := tags[row.ID]; ok {
			view.Tags = t
		}
		if m, ok := metadata[row.ID]; ok {
			view.Metadata = m
		}
		views = append(views, view)
	}
	return views, nil
}

// ===== 下载 =====

// Download 读取当前生效版本的内容
func (s *DocumentService) Download(ctx context.Context, actorID, id string) (*DownloadResult, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	obj, err := s.store.Get(ctx, storage.NameFromPointer(doc.StoragePointer))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, response.NotFoundError("文档内容不存在")
		}
		return nil, response.DependencyError("读取文件失败", err)
	}

	s.audit.RecordBestEffort(ctx, actorID, doc.ID, auditModel.ActionDownload, fileName(doc.Name, doc.Extension))

	contentType := obj.ContentType
	if contentType == "" {
		contentType = contentTypeOrDefault(doc.ContentType)
	}
	size := obj.Size
	if size <= 0 {
		size = doc.Size
	}
	return &DownloadResult{
		FileName:    fileName(doc.Name, doc.Extension),
		ContentType: contentType,
		Size:        size,
		Body:        obj.Body,
	}, nil
}

// ===== 删除 =====

// Delete 先写审计记录，再在事务内删除元数据、标签关联、版本与文档
// 行删除成功后删除所有版本及当前内容的对象，对象删除失败时回滚
func (s *DocumentService) Delete(ctx context.Context, actorID, id string) error {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return err
	}

	// 审计先于删除，后续步骤失败时记录仍然存在
	if err := s.audit.Record(ctx, actorID, doc.ID, auditModel.ActionDelete, fileName(doc.Name, doc.Extension)); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		docs := s.docs.WithTx(tx)
		versions := s.versions.WithTx(tx)

		pointers, err := versions.Pointers(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := docs.DeleteMetadata(ctx, doc.ID); err != nil {
			return err
		}
		if err := docs.DeleteTagLinks(ctx, doc.ID); err != nil {
			return err
		}
		if err := versions.DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}
		rows, err := docs.Delete(ctx, doc.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return gorm.ErrRecordNotFound
		}

		return s.deleteObjects(ctx, append(pointers, doc.StoragePointer))
	})
	if err != nil {
		if database.IsNotFound(err) {
			return response.NotFoundError("文档不存在")
		}
		return response.DependencyError("删除文档失败", err)
	}

	s.logger.Info("文档已删除", zap.String("document_id", doc.ID), zap.String("actor_id", actorID))
	return nil
}

// deleteObjects 同一对象只删除一次，不存在的对象视为已删除
func (s *DocumentService) deleteObjects(ctx context.Context, pointers []string) error {
	seen := make(map[string]struct{}, len(pointers))
	for _, pointer := range pointers {
		name := storage.NameFromPointer(pointer)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		if _, err := s.store.Delete(ctx, name); err != nil {
			return fmt.Errorf("删除对象 %s 失败: %w", name, err)
		}
	}
	return nil
}

// ===== 元数据 =====

// ReplaceMetadata 整体替换元数据，空集合直接拒绝
func (s *DocumentService) ReplaceMetadata(ctx context.Context, actorID, id string, metadata map[string]string) (map[string]string, error) {
	if len(metadata) == 0 {
		return nil, response.ValidationError("元数据不能为空")
	}
	normalized, err := normalizeMetadata(metadata)
	if err != nil {
		return nil, err
	}

	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		docs := s.docs.WithTx(tx)
		if err := docs.DeleteMetadata(ctx, doc.ID); err != nil {
			return err
		}
		return docs.InsertMetadata(ctx, doc.ID, normalized)
	})
	if err != nil {
		return nil, response.DependencyError("更新元数据失败", err)
	}

	s.audit.RecordBestEffort(ctx, actorID, doc.ID, auditModel.ActionMetadataEdit, fmt.Sprintf("%d 项", len(normalized)))
	return normalized, nil
}

// ===== 版本 =====

// NextVersionNumber 下一个版本号
func (s *DocumentService) NextVersionNumber(ctx context.Context, id string) (int, error) {
	if _, err := s.getDocument(ctx, id); err != nil {
		return 0, err
	}
	next, err := s.versions.NextVersionNumber(ctx, id)
	if err != nil {
		return 0, response.DependencyError("查询版本失败", err)
	}
	return next, nil
}

// ListVersions 版本历史，按版本号升序
func (s *DocumentService) ListVersions(ctx context.Context, id string) ([]documentModel.Version, error) {
	if _, err := s.getDocument(ctx, id); err != nil {
		return nil, err
	}
	versions, err := s.versions.List(ctx, id)
	if err != nil {
		return nil, response.DependencyError("查询版本失败", err)
	}
	return versions, nil
}

// UploadVersion 上传新内容，追加版本并切换当前生效的存储定位符
func (s *DocumentService) UploadVersion(ctx context.Context, actorID, id string, in ContentInput) (*documentModel.Version, error) {
	if in.Content == nil || in.Size == 0 {
		return nil, response.ValidationError("文件内容不能为空")
	}

	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	contentType := contentTypeOrDefault(in.ContentType)
	objectName := storage.NewObjectName(doc.Extension)
	pointer, err := s.store.Put(ctx, objectName, in.Content, in.Size, contentType)
	if err != nil {
		return nil, response.DependencyError("文件存储失败", err)
	}

	version := &documentModel.Version{
		DocumentID:     doc.ID,
		StoragePointer: pointer,
		Size:           in.Size,
		ContentType:    contentType,
		CreatedBy:      actorID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		versions := s.versions.WithTx(tx)

		next, err := versions.NextVersionNumber(ctx, doc.ID)
		if err != nil {
			return err
		}
		version.VersionNumber = next
		if err := versions.Create(ctx, version); err != nil {
			return err
		}

		_, err = s.docs.WithTx(tx).UpdateContent(ctx, doc.ID, pointer, in.Size, contentType)
		return err
	})
	if err != nil {
		s.discardObject(ctx, objectName)
		if database.IsDuplicateKey(err) {
			return nil, response.ConflictError("版本号冲突，请重试", err)
		}
		return nil, response.DependencyError("保存版本失败", err)
	}

	s.audit.RecordBestEffort(ctx, actorID, doc.ID, auditModel.ActionVersionUpload, fmt.Sprintf("v%d", version.VersionNumber))
	return version, nil
}

// RestoreVersion 把历史版本的存储定位符设为当前生效，不复制对象也不新增版本
func (s *DocumentService) RestoreVersion(ctx context.Context, actorID, id string, number int) (*documentModel.Version, error) {
	doc, err := s.getDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	version, err := s.versions.GetByNumber(ctx, doc.ID, number)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, response.NotFoundError("版本不存在")
		}
		return nil, response.DependencyError("查询版本失败", err)
	}

	if _, err := s.docs.UpdateContent(ctx, doc.ID, version.StoragePointer, version.Size, contentTypeOrDefault(version.ContentType)); err != nil {
		return nil, response.DependencyError("恢复版本失败", err)
	}

	s.audit.RecordBestEffort(ctx, actorID, doc.ID, auditModel.ActionVersionRestore, fmt.Sprintf("v%d", number))
	return version, nil
}

// ===== 工具 =====

func (s *DocumentService) getDocument(ctx context.Context, id string) (*documentModel.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, response.NotFoundError("文档不存在")
		}
		return nil, response.DependencyError("查询文档失败", err)
	}
	return doc, nil
}

// discardObject 补偿删除，失败只记日志
func (s *DocumentService) discardObject(ctx context.Context, name string) {
	if _, err := s.store.Delete(context.WithoutCancel(ctx), name); err != nil {
		s.logger.Warn("清理未关联的对象失败", zap.String("object", name), zap.Error(err))
	}
}

func normalizeExtension(extension, name string) string {
	ext := strings.ToLower(strings.TrimSpace(extension))
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(name))
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// normalizeTags 去除空白与重复（区分大小写，与 tags.name 唯一索引一致），保持原有顺序
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

func normalizeMetadata(metadata map[string]string) (map[string]string, error) {
	result := make(map[string]string, len(metadata))
	for key, value := range metadata {
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, response.ValidationError("元数据键不能为空")
		}
		if len(key) > 100 {
			return nil, response.ValidationError("元数据键长度不能超过100个字符")
		}
		if _, ok := result[key]; ok {
			return nil, response.ValidationError(fmt.Sprintf("元数据键重复: %s", key))
		}
		result[key] = value
	}
	return result, nil
}

func contentTypeOrDefault(contentType string) string {
	if contentType == "" {
		return defaultContentType
	}
	return contentType
}

// fileName 下载时的文件名，名称已带扩展名时不重复追加
func fileName(name, extension string) string {
	if extension == "" || strings.HasSuffix(strings.ToLower(name), extension) {
		return name
	}
	return name + extension
}
