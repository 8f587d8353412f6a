package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditModel "github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/audit"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model/document"
	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/testutils"
	"github.com/j-marthe/sistema-gestion-archivos-backend/packages/response"
)

func setupAuditService(t *testing.T) (*AuditService, *gorm.DB) {
	db := testutils.SetupTestDB(t)
	return NewAuditService(NewAuditRepository(db), zap.NewNop()), db
}

func createDocument(t *testing.T, db *gorm.DB, ownerID, name string) *document.Document {
	category := testutils.CreateTestCategory(db)
	doc := &document.Document{
		Name:           name,
		Extension:      ".pdf",
		StoragePointer: "mem://blobs/" + name,
		OwnerID:        ownerID,
		CategoryID:     category.ID,
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func TestAuditService_RecordAndList(t *testing.T) {
	service, db := setupAuditService(t)
	ctx := context.Background()

	actor := testutils.CreateTestUser(db, testutils.WithName("Alice"))
	doc := createDocument(t, db, actor.ID, "report")

	require.NoError(t, service.Record(ctx, actor.ID, doc.ID, auditModel.ActionUpload, "report.pdf"))
	require.NoError(t, service.Record(ctx, actor.ID, doc.ID, auditModel.ActionDownload, ""))

	entries, err := service.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// 最新的在前
	assert.Equal(t, auditModel.ActionDownload, entries[0].Action)
	assert.Equal(t, auditModel.ActionUpload, entries[1].Action)
	assert.Equal(t, "Alice", entries[1].UserName)
	assert.Equal(t, "report", entries[1].DocumentName)
	assert.Equal(t, "report.pdf", entries[1].Detail)
	require.NotNil(t, entries[1].DocumentID)
	assert.Equal(t, doc.ID, *entries[1].DocumentID)
}

func TestAuditService_DeletedDocumentSentinel(t *testing.T) {
	service, db := setupAuditService(t)
	ctx := context.Background()

	actor := testutils.CreateTestUser(db)
	doc := createDocument(t, db, actor.ID, "contract")

	require.NoError(t, service.Record(ctx, actor.ID, doc.ID, auditModel.ActionDelete, "contract"))
	require.NoError(t, db.Delete(&document.Document{}, "id = ?", doc.ID).Error)

	entries, err := service.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DeletedLabel, entries[0].DocumentName)
	require.NotNil(t, entries[0].DocumentID)
	assert.Equal(t, doc.ID, *entries[0].DocumentID)
}

func TestAuditService_WithoutDocument(t *testing.T) {
	service, db := setupAuditService(t)
	ctx := context.Background()

	actor := testutils.CreateTestUser(db)
	require.NoError(t, service.Record(ctx, actor.ID, "", "Login", ""))

	entries, err := service.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].DocumentID)
	assert.Empty(t, entries[0].DocumentName)
}

func TestAuditService_ListDateRange(t *testing.T) {
	service, db := setupAuditService(t)
	ctx := context.Background()

	actor := testutils.CreateTestUser(db)
	days := []time.Time{
		time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC),
	}
	for _, day := range days {
		require.NoError(t, db.Create(&auditModel.Entry{
			UserID:    actor.ID,
			Action:    auditModel.ActionUpload,
			CreatedAt: day,
		}).Error)
	}

	from := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 20, 23, 59, 59, 0, time.UTC)
	entries, err := service.List(ctx, ListFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].CreatedAt.Equal(days[2]))
	assert.True(t, entries[1].CreatedAt.Equal(days[1]))

	entries, err = service.List(ctx, ListFilter{To: &from})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = service.List(ctx, ListFilter{From: &to, To: &from})
	assert.True(t, response.IsCode(err, response.InvalidParameter))
}

func TestAuditService_RecordBestEffort(t *testing.T) {
	service, db := setupAuditService(t)
	ctx := context.Background()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.NotPanics(t, func() {
		service.RecordBestEffort(ctx, "someone", "", auditModel.ActionDownload, "")
	})
	err = service.Record(ctx, "someone", "", auditModel.ActionDownload, "")
	assert.True(t, response.IsCode(err, response.DependencyFailure))
}
