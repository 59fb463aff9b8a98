package database

import (
	"path/filepath"
	"testing"

	"courseledger/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type widget struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func TestConnectSQLiteMigrates(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBName: filepath.Join(t.TempDir(), "test.db")}

	db, err := Connect(cfg, zap.NewNop(), &widget{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Create(&widget{ID: "w1", Name: "first"}).Error)

	var got widget
	require.NoError(t, db.First(&got, "id = ?", "w1").Error)
	assert.Equal(t, "first", got.Name)
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestDialectorBuildsServerDrivers(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBHost: "db", DBName: "ledger"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}
}

func TestConnectClosesPoolWhenMigrationFails(t *testing.T) {
	var closed bool
	closeDB = func(db *gorm.DB) error {
		closed = true
		return Close(db)
	}
	t.Cleanup(func() { closeDB = Close })

	cfg := &config.Config{DBDriver: "sqlite", DBName: filepath.Join(t.TempDir(), "test.db")}
	db, err := Connect(cfg, zap.NewNop(), new(int))

	require.Error(t, err)
	assert.Nil(t, db)
	assert.True(t, closed)
}
