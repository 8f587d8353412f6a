package document

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/audit"
	auditModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/audit"
	documentModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
	userModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/user"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/storage"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/testutils"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

type testEnv struct {
	db       *gorm.DB
	service  *DocumentService
	audit    *audit.AuditService
	store    *testutils.MemoryStorage
	owner    *userModel.User
	category *documentModel.Category
}

func setupEnv(t *testing.T) *testEnv {
	db := testutils.SetupTestDB(t)
	store := testutils.NewMemoryStorage()
	auditService := audit.NewAuditService(audit.NewAuditRepository(db), zap.NewNop())
	service := NewDocumentService(db, NewDocumentRepository(db), NewVersionRepository(db), store, auditService, zap.NewNop())

	return &testEnv{
		db:       db,
		service:  service,
		audit:    auditService,
		store:    store,
		owner:    testutils.CreateTestUser(db, testutils.WithName("Alice")),
		category: testutils.CreateTestCategory(db, "Finanzas"),
	}
}

func (e *testEnv) upload(t *testing.T, name, content string, tags []string, metadata map[string]string) *DocumentDetail {
	t.Helper()
	detail, err := e.service.Upload(context.Background(), UploadInput{
		Name:        name,
		CategoryID:  e.category.ID,
		OwnerID:     e.owner.ID,
		Tags:        tags,
		Metadata:    metadata,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	return detail
}

func readAll(t *testing.T, r io.ReadCloser) string {
	t.Helper()
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func countRows(t *testing.T, db *gorm.DB, model any, documentID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Where("document_id = ?", documentID).Count(&count).Error)
	return count
}

// TestDocumentService_Scenario 上传、新版本、恢复的完整流程
func TestDocumentService_Scenario(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	detail := env.upload(t, "Report.pdf", "v1 content", []string{"finance", "q3"}, map[string]string{"author": "Alice"})

	assert.Equal(t, "Report.pdf", detail.Name)
	assert.Equal(t, ".pdf", detail.Extension)
	assert.Equal(t, env.owner.ID, detail.OwnerID)
	assert.Equal(t, "Alice", detail.OwnerName)
	assert.Equal(t, env.category.ID, detail.CategoryID)
	assert.Equal(t, "Finanzas", detail.CategoryName)
	assert.Equal(t, []string{"finance", "q3"}, detail.Tags)
	assert.Equal(t, map[string]string{"author": "Alice"}, detail.Metadata)
	require.Len(t, detail.Versions, 1)
	assert.Equal(t, 1, detail.Versions[0].VersionNumber)
	assert.Equal(t, detail.StoragePointer, detail.Versions[0].StoragePointer)
	firstPointer := detail.StoragePointer

	next, err := env.service.NextVersionNumber(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	// 上传新版本
	v2, err := env.service.UploadVersion(ctx, env.owner.ID, detail.ID, ContentInput{
		Content: strings.NewReader("v2 content"),
		Size:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, v2.VersionNumber)

	next, err = env.service.NextVersionNumber(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	detail, err = env.service.Detail(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, v2.StoragePointer, detail.StoragePointer)
	assert.NotEqual(t, firstPointer, detail.StoragePointer)

	download, err := env.service.Download(ctx, env.owner.ID, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2 content", readAll(t, download.Body))
	assert.Equal(t, "Report.pdf", download.FileName)

	// 恢复版本 1：不新增版本
	restored, err := env.service.RestoreVersion(ctx, env.owner.ID, detail.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, firstPointer, restored.StoragePointer)

	detail, err = env.service.Detail(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, firstPointer, detail.StoragePointer)

	versions, err := env.service.ListVersions(ctx, detail.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 1, versions[0].VersionNumber)
	assert.Equal(t, 2, versions[1].VersionNumber)

	next, err = env.service.NextVersionNumber(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	download, err = env.service.Download(ctx, env.owner.ID, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1 content", readAll(t, download.Body))

	entries, err := env.audit.List(ctx, audit.ListFilter{})
	require.NoError(t, err)
	actions := make([]string, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	assert.ElementsMatch(t, []string{
		auditModel.ActionUpload,
		auditModel.ActionVersionUpload,
		auditModel.ActionDownload,
		auditModel.ActionVersionRestore,
		auditModel.ActionDownload,
	}, actions)
}

func TestDocumentService_UploadValidation(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.service.Upload(ctx, UploadInput{
		Name:       "  ",
		CategoryID: env.category.ID,
		OwnerID:    env.owner.ID,
		Content:    strings.NewReader("x"),
		Size:       1,
	})
	assert.True(t, response.IsCode(err, response.InvalidParameter))

	_, err = env.service.Upload(ctx, UploadInput{
		Name:       "empty.txt",
		CategoryID: env.category.ID,
		OwnerID:    env.owner.ID,
		Content:    strings.NewReader(""),
		Size:       0,
	})
	assert.True(t, response.IsCode(err, response.InvalidParameter))

	_, err = env.service.Upload(ctx, UploadInput{
		Name:       "a.txt",
		CategoryID: 9999,
		OwnerID:    env.owner.ID,
		Content:    strings.NewReader("x"),
		Size:       1,
	})
	assert.True(t, response.IsCode(err, response.NotFound))

	_, err = env.service.Upload(ctx, UploadInput{
		Name:       "a.txt",
		CategoryID: env.category.ID,
		OwnerID:    env.owner.ID,
		Metadata:   map[string]string{"author": "Alice", "author ": "Bob"},
		Content:    strings.NewReader("x"),
		Size:       1,
	})
	assert.True(t, response.IsCode(err, response.InvalidParameter))

	assert.Empty(t, env.store.Names())
}

func TestDocumentService_TagsAreCaseSensitive(t *testing.T) {
	env := setupEnv(t)

	detail := env.upload(t, "a.txt", "x", []string{"Finance", "finance", "Finance"}, nil)
	assert.Equal(t, []string{"Finance", "finance"}, detail.Tags)

	other := env.upload(t, "b.txt", "y", []string{"finance"}, nil)
	assert.Equal(t, []string{"finance"}, other.Tags)
	var tags int64
	require.NoError(t, env.db.Model(&documentModel.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(2), tags)
}

func TestDocumentService_RestoreVersionContentType(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	detail := env.upload(t, "Report.pdf", "v1", nil, nil)
	require.Equal(t, "application/pdf", detail.ContentType)

	v2, err := env.service.UploadVersion(ctx, env.owner.ID, detail.ID, ContentInput{
		Content:     strings.NewReader("v2"),
		Size:        2,
		ContentType: "text/plain",
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", v2.ContentType)

	tests := []struct {
		number      int
		contentType string
	}{
		{1, "application/pdf"},
		{2, "text/plain"},
	}
	for _, tt := range tests {
		_, err := env.service.RestoreVersion(ctx, env.owner.ID, detail.ID, tt.number)
		require.NoError(t, err)

		got, err := env.service.Detail(ctx, detail.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.contentType, got.ContentType)

		result, err := env.service.Download(ctx, env.owner.ID, detail.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.contentType, result.ContentType)
		result.Body.Close()
	}
}

func TestDocumentService_UploadStorageFailure(t *testing.T) {
	env := setupEnv(t)
	env.store.FailPut = errors.New("connection reset")

	_, err := env.service.Upload(context.Background(), UploadInput{
		Name:       "a.txt",
		CategoryID: env.category.ID,
		OwnerID:    env.owner.ID,
		Content:    strings.NewReader("x"),
		Size:       1,
	})
	require.Error(t, err)
	assert.True(t, response.IsCode(err, response.DependencyFailure))
	assert.NotContains(t, err.(*response.BusinessError).Msg, "connection reset")

	var count int64
	require.NoError(t, env.db.Model(&documentModel.Document{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDocumentService_UploadRollbackRemovesObject(t *testing.T) {
	env := setupEnv(t)

	// 所有者不存在，外键约束使事务失败
	_, err := env.service.Upload(context.Background(), UploadInput{
		Name:       "a.txt",
		CategoryID: env.category.ID,
		OwnerID:    "missing-owner",
		Content:    strings.NewReader("x"),
		Size:       1,
	})
	require.Error(t, err)
	assert.Empty(t, env.store.Names())
}

func TestDocumentService_TagsAreShared(t *testing.T) {
	env := setupEnv(t)

	env.upload(t, "a.pdf", "a", []string{"finance", " q3 ", "finance"}, nil)
	env.upload(t, "b.pdf", "b", []string{"finance"}, nil)

	var tags []documentModel.Tag
	require.NoError(t, env.db.Order("name").Find(&tags).Error)
	require.Len(t, tags, 2)
	assert.Equal(t, "finance", tags[0].Name)
	assert.Equal(t, "q3", tags[1].Name)
}

func TestDocumentService_Delete(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	admin := testutils.CreateTestUser(env.db, testutils.WithRole(userModel.RoleAdministrator))

	detail := env.upload(t, "Report.pdf", "v1", []string{"finance"}, map[string]string{"author": "Alice"})
	_, err := env.service.UploadVersion(ctx, env.owner.ID, detail.ID, ContentInput{Content: strings.NewReader("v2"), Size: 2})
	require.NoError(t, err)
	require.Len(t, env.store.Names(), 2)

	keep := env.upload(t, "Other.pdf", "other", []string{"finance"}, map[string]string{"author": "Bob"})

	require.NoError(t, env.service.Delete(ctx, admin.ID, detail.ID))

	_, err = env.service.Detail(ctx, detail.ID)
	assert.True(t, response.IsCode(err, response.NotFound))

	assert.Zero(t, countRows(t, env.db, &documentModel.Version{}, detail.ID))
	assert.Zero(t, countRows(t, env.db, &documentModel.Metadata{}, detail.ID))
	assert.Zero(t, countRows(t, env.db, &documentModel.DocumentTag{}, detail.ID))
	assert.Equal(t, []string{storage.NameFromPointer(keep.StoragePointer)}, env.store.Names())

	// 标签本身保留，仍被其他文档使用
	other, err := env.service.Detail(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"finance"}, other.Tags)

	// 审计记录保留并显示为已删除
	entries, err := env.audit.List(ctx, audit.ListFilter{})
	require.NoError(t, err)
	var deleted []audit.EntryView
	for _, entry := range entries {
		if entry.DocumentID != nil && *entry.DocumentID == detail.ID {
			deleted = append(deleted, entry)
		}
	}
	require.Len(t, deleted, 3)
	assert.Equal(t, auditModel.ActionDelete, deleted[0].Action)
	for _, entry := range deleted {
		assert.Equal(t, audit.DeletedLabel, entry.DocumentName)
	}

	err = env.service.Delete(ctx, admin.ID, detail.ID)
	assert.True(t, response.IsCode(err, response.NotFound))
}

func TestDocumentService_DeleteStorageFailureRollsBack(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	detail := env.upload(t, "Report.pdf", "v1", []string{"finance"}, map[string]string{"author": "Alice"})
	env.store.FailDelete = errors.New("storage unavailable")

	err := env.service.Delete(ctx, env.owner.ID, detail.ID)
	assert.True(t, response.IsCode(err, response.DependencyFailure))

	got, err := env.service.Detail(ctx, detail.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"finance"}, got.Tags)
	assert.Len(t, got.Versions, 1)

	// 删除前的审计记录已经写入
	entries, err := env.audit.List(ctx, audit.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, auditModel.ActionDelete, entries[0].Action)
}

func TestDocumentService_ReplaceMetadata(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	detail := env.upload(t, "Report.pdf", "v1", nil, map[string]string{"author": "Alice", "year": "2024"})

	t.Run("空集合被拒绝且原有元数据不变", func(t *testing.T) {
		_, err := env.service.ReplaceMetadata(ctx, env.owner.ID, detail.ID, map[string]string{})
		assert.True(t, response.IsCode(err, response.InvalidParameter))

		got, err := env.service.Detail(ctx, detail.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"author": "Alice", "year": "2024"}, got.Metadata)
	})

	t.Run("整体替换", func(t *testing.T) {
		metadata, err := env.service.ReplaceMetadata(ctx, env.owner.ID, detail.ID, map[string]string{"reviewer": "Bob"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"reviewer": "Bob"}, metadata)

		got, err := env.service.Detail(ctx, detail.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"reviewer": "Bob"}, got.Metadata)
	})

	t.Run("空键被拒绝", func(t *testing.T) {
		_, err := env.service.ReplaceMetadata(ctx, env.owner.ID, detail.ID, map[string]string{" ": "x"})
		assert.True(t, response.IsCode(err, response.InvalidParameter))
	})

	t.Run("去除空白后键重复被拒绝", func(t *testing.T) {
		_, err := env.service.ReplaceMetadata(ctx, env.owner.ID, detail.ID, map[string]string{"a": "1", " a": "2"})
		assert.True(t, response.IsCode(err, response.InvalidParameter))

		got, err := env.service.Detail(ctx, detail.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"reviewer": "Bob"}, got.Metadata)
	})

	t.Run("文档不存在", func(t *testing.T) {
		_, err := env.service.ReplaceMetadata(ctx, env.owner.ID, "missing", map[string]string{"a": "b"})
		assert.True(t, response.IsCode(err, response.NotFound))
	})
}

func TestDocumentService_Versions(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	detail := env.upload(t, "Report.pdf", "v1", nil, nil)

	for i := 2; i <= 4; i++ {
		before, err := env.service.NextVersionNumber(ctx, detail.ID)
		require.NoError(t, err)
		assert.Equal(t, i, before)

		version, err := env.service.UploadVersion(ctx, env.owner.ID, detail.ID, ContentInput{Content: strings.NewReader("data"), Size: 4})
		require.NoError(t, err)
		assert.Equal(t, i, version.VersionNumber)
	}

	for _, number := range []int{1, 3, 2} {
		_, err := env.service.RestoreVersion(ctx, env.owner.ID, detail.ID, number)
		require.NoError(t, err)
	}
	versions, err := env.service.ListVersions(ctx, detail.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 4)

	_, err = env.service.RestoreVersion(ctx, env.owner.ID, detail.ID, 9)
	assert.True(t, response.IsCode(err, response.NotFound))

	_, err = env.service.UploadVersion(ctx, env.owner.ID, "missing", ContentInput{Content: strings.NewReader("x"), Size: 1})
	assert.True(t, response.IsCode(err, response.NotFound))

	_, err = env.service.UploadVersion(ctx, env.owner.ID, detail.ID, ContentInput{Content: strings.NewReader(""), Size: 0})
	assert.True(t, response.IsCode(err, response.InvalidParameter))

	_, err = env.service.ListVersions(ctx, "missing")
	assert.True(t, response.IsCode(err, response.NotFound))
}

func TestDocumentService_DownloadNotFound(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.service.Download(ctx, env.owner.ID, "missing")
	assert.True(t, response.IsCode(err, response.NotFound))

	detail := env.upload(t, "a.txt", "x", nil, nil)
	env.store.FailGet = errors.New("timeout")
	_, err = env.service.Download(ctx, env.owner.ID, detail.ID)
	assert.True(t, response.IsCode(err, response.DependencyFailure))
}

func TestDocumentService_ListAndListByOwner(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	bob := testutils.CreateTestUser(env.db, testutils.WithName("Bob"))

	env.upload(t, "a.pdf", "a", []string{"x"}, map[string]string{"k": "v"})
	_, err := env.service.Upload(ctx, UploadInput{
		Name:       "b.pdf",
		CategoryID: env.category.ID,
		OwnerID:    bob.ID,
		Content:    strings.NewReader("b"),
		Size:       1,
	})
	require.NoError(t, err)

	docs, err := env.service.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, doc := range docs {
		assert.NotNil(t, doc.Tags)
		assert.NotNil(t, doc.Metadata)
	}

	docs, err = env.service.ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b.pdf", docs[0].Name)
	assert.Equal(t, "Bob", docs[0].OwnerName)
	assert.Empty(t, docs[0].Tags)

	_, err = env.service.ListByOwner(ctx, "missing")
	assert.True(t, response.IsCode(err, response.NotFound))
}

func TestNormalizeHelpers(t *testing.T) {
	assert.Equal(t, ".pdf", normalizeExtension("", "Report.PDF"))
	assert.Equal(t, ".txt", normalizeExtension("txt", "notes"))
	assert.Equal(t, "", normalizeExtension("", "README"))

	assert.Equal(t, []string{"a", "B", "b"}, normalizeTags([]string{" a ", "", "B", "b", "a"}))

	assert.Equal(t, "Report.pdf", fileName("Report.pdf", ".pdf"))
	assert.Equal(t, "Report.pdf", fileName("Report", ".pdf"))

	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, chunk([]string{"a", "b", "c"}, 2))
	assert.Nil(t, chunk(nil, 2))
}

func TestDocumentService_UploadedAtIsUTC(t *testing.T) {
	env := setupEnv(t)
	detail := env.upload(t, "a.txt", "x", nil, nil)
	assert.WithinDuration(t, time.Now(), detail.UploadedAt, time.Minute)
}
