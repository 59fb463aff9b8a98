// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"courseledger/config"
	"courseledger/database"
	"courseledger/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OpenSQLite opens a migrated sqlite database under t.TempDir.
func OpenSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{DBDriver: "sqlite", DBName: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.Connect(cfg, zap.NewNop(), &models.Course{}, &models.Student{}, &models.Enrollment{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
