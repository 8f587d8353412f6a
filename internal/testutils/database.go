package testutils

import (
	"testing"

	"github.com/j-marthe/sistema-gestion-archivos-backend/internal/model"
	dbPkg "github.com/j-marthe/sistema-gestion-archivos-backend/packages/database"

	"gorm.io/gorm"
)

// SetupTestDB opens an isolated in-memory SQLite database (pure Go driver),
// migrates every table and seeds the role lookup table.
// The connection is closed on test cleanup, discarding all data.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := dbPkg.InitSQLite(&dbPkg.SQLiteConfig{
		ServiceName: "test",
		Path:        ":memory:",
		LogLevel:    "silent", // Suppress logs in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Initialize all tables
	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}
