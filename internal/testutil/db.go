// Package testutil opens throwaway SQLite stores for package tests.
package testutil

import (
	"fmt"
	"testing"

	"task_analytics/internal/database"
	"task_analytics/internal/migrations"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := database.Open(dsn, "silent")
	require.NoError(t, err)
	require.NoError(t, migrations.RunMigrations(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
