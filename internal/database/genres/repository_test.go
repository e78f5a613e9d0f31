package genres

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storyarc/storyarc/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "genres.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Genre{}, &entities.Book{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db), db
}

func bookGenre(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var b entities.Book
	require.NoError(t, db.First(&b, id).Error)
	return b.Genre
}

func TestRepository_Create(t *testing.T) {
	repo, _ := setupTestDB(t)

	genre, err := repo.Create("  Fantasy ")
	require.NoError(t, err)
	assert.NotZero(t, genre.ID)
	assert.Equal(t, "Fantasy", genre.Name)

	_, err = repo.Create("fantasy")
	assert.ErrorIs(t, err, ErrGenreExists)

	again, created, err := repo.GetOrCreate("FANTASY")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, genre.ID, again.ID)

	_, created, err = repo.GetOrCreate("Poetry")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestRepository_List(t *testing.T) {
	repo, db := setupTestDB(t)

	for _, name := range []string{"Mystery", "Classics", "Horror"} {
		_, err := repo.Create(name)
		require.NoError(t, err)
	}
	for _, b := range []entities.Book{
		{Title: "A", Genre: "Mystery"},
		{Title: "B", Genre: "Mystery"},
		{Title: "C", Genre: "Classics"},
	} {
		require.NoError(t, db.Create(&b).Error)
	}

	genres, total, err := repo.List(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, genres, 2)
	assert.Equal(t, "Classics", genres[0].Name)
	assert.Equal(t, int64(1), genres[0].BookCount)
	assert.Equal(t, "Horror", genres[1].Name)
	assert.Zero(t, genres[1].BookCount)

	genres, _, err = repo.List(2, 2)
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "Mystery", genres[0].Name)
	assert.Equal(t, int64(2), genres[0].BookCount)
	assert.NotZero(t, genres[0].ID)
}

func TestRepository_Rename(t *testing.T) {
	repo, db := setupTestDB(t)

	sf, err := repo.Create("SF")
	require.NoError(t, err)
	_, err = repo.Create("Horror")
	require.NoError(t, err)

	book := entities.Book{Title: "Dune", Genre: "SF"}
	other := entities.Book{Title: "It", Genre: "Horror"}
	require.NoError(t, db.Create(&book).Error)
	require.NoError(t, db.Create(&other).Error)

	renamed, err := repo.Rename(sf.ID, "Science Fiction")
	require.NoError(t, err)
	assert.Equal(t, "Science Fiction", renamed.Name)
	assert.Equal(t, "Science Fiction", bookGenre(t, db, book.ID))
	assert.Equal(t, "Horror", bookGenre(t, db, other.ID))

	t.Run("same name is a no-op", func(t *testing.T) {
		g, err := repo.Rename(sf.ID, "Science Fiction")
		require.NoError(t, err)
		assert.Equal(t, "Science Fiction", g.Name)
	})

	t.Run("clash with another genre", func(t *testing.T) {
		_, err := repo.Rename(sf.ID, "horror")
		assert.ErrorIs(t, err, ErrGenreExists)
		assert.Equal(t, "Science Fiction", bookGenre(t, db, book.ID))
	})

	t.Run("missing genre", func(t *testing.T) {
		_, err := repo.Rename(9999, "x")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, db := setupTestDB(t)

	g, err := repo.Create("Westerns")
	require.NoError(t, err)
	book := entities.Book{Title: "Lonesome Dove", Genre: "Westerns"}
	require.NoError(t, db.Create(&book).Error)

	require.NoError(t, repo.Delete(g.ID))
	assert.Equal(t, "", bookGenre(t, db, book.ID))

	_, err = repo.GetByID(g.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(g.ID), gorm.ErrRecordNotFound)
}
