package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyarc/storyarc/internal/entities"
)

func TestNewDatabase_MigratesSchema(t *testing.T) {
	db, err := NewQuietDatabase(filepath.Join(t.TempDir(), "storyarc.db"))
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"users", "books", "genres", "reviews", "tutorials", "shelf_items", "audit_events"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}
	assert.True(t, db.DB.Migrator().HasIndex(&entities.ShelfItem{}, "idx_shelf_user_book"))
	assert.NoError(t, db.Ping())
}

func TestNewDatabase_InMemorySharesOneConnection(t *testing.T) {
	db, err := NewQuietDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.DB.Create(&entities.Genre{Name: "Poetry"}).Error)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Genre{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewQuietDatabase(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping())
}
