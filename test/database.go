package test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wedding-ledger/backend/internal/models"
	"gorm.io/gorm"
)

// TmpFile returns the path of a not yet existing SQLite database file
// in a temporary directory that is removed when the test ends.
func TmpFile(t *testing.T) string {
	dir := t.TempDir()
	return filepath.Join(dir, uuid.New().String()+".db")
}

// DB connects to a fresh, migrated database that is closed when the
// test ends.
func DB(t *testing.T) *gorm.DB {
	db, err := models.Connect(TmpFile(t))
	require.Nil(t, err, "Database connection failed")
	require.Nil(t, models.Migrate(db), "Database migration failed")

	t.Cleanup(func() {
		CloseDB(t, db)
	})

	return db
}

// CloseDB closes the database connection. This enables testing the handling
// of database errors.
func CloseDB(t *testing.T, db *gorm.DB) {
	sqlDB, err := db.DB()
	require.Nil(t, err, "Failed to get database resource for teardown")
	sqlDB.Close()
}
