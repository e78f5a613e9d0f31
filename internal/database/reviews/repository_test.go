package reviews

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storyarc/storyarc/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reviews.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Review{}, &entities.Book{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db), db
}

func TestRepository_CreateDefaultsToPending(t *testing.T) {
	repo, _ := setupTestDB(t)

	review := &entities.Review{BookID: 1, UserID: 2, Rating: 4, Comment: "Great"}
	require.NoError(t, repo.Create(review))
	assert.NotZero(t, review.ID)

	got, err := repo.GetByID(review.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ReviewStatusPending, got.Status)
}

func TestRepository_ApproveAndStats(t *testing.T) {
	repo, _ := setupTestDB(t)

	avg, count, err := repo.ApprovedStats(1)
	require.NoError(t, err)
	assert.Zero(t, avg)
	assert.Zero(t, count)

	var ids []uint
	for _, rating := range []int{5, 4, 4} {
		rv := &entities.Review{BookID: 1, UserID: 7, Rating: rating}
		require.NoError(t, repo.Create(rv))
		ids = append(ids, rv.ID)
	}

	pending, err := repo.CountByStatus(entities.ReviewStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending)

	_, count, err = repo.ApprovedStats(1)
	require.NoError(t, err)
	assert.Zero(t, count, "pending reviews do not count")

	for _, id := range ids[:2] {
		approved, err := repo.Approve(id)
		require.NoError(t, err)
		assert.Equal(t, entities.ReviewStatusApproved, approved.Status)
	}

	avg, count, err = repo.ApprovedStats(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.InDelta(t, 4.5, avg, 0.0001)

	avg, count, err = repo.AverageByUser(7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.InDelta(t, 4.5, avg, 0.0001)

	_, err = repo.Approve(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_ApprovedForBook(t *testing.T) {
	repo, _ := setupTestDB(t)
	now := time.Now()

	older := &entities.Review{BookID: 3, Rating: 3, Status: entities.ReviewStatusApproved, CreatedAt: now.Add(-time.Hour)}
	newer := &entities.Review{BookID: 3, Rating: 5, Status: entities.ReviewStatusApproved, CreatedAt: now}
	hidden := &entities.Review{BookID: 3, Rating: 1, CreatedAt: now}
	otherBook := &entities.Review{BookID: 4, Rating: 2, Status: entities.ReviewStatusApproved}
	for _, rv := range []*entities.Review{older, newer, hidden, otherBook} {
		require.NoError(t, repo.Create(rv))
	}

	got, err := repo.ApprovedForBook(3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)

	got, err = repo.ApprovedForBook(42)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRepository_ListFillsBookDetails(t *testing.T) {
	repo, db := setupTestDB(t)

	book := entities.Book{Title: "Beloved", Author: "Toni Morrison", Cover: "https://covers/beloved.jpg"}
	require.NoError(t, db.Create(&book).Error)

	bare := &entities.Review{BookID: book.ID, Rating: 5}
	named := &entities.Review{BookID: book.ID, Rating: 4, BookTitle: "Custom", Status: entities.ReviewStatusApproved}
	require.NoError(t, repo.Create(bare))
	require.NoError(t, repo.Create(named))

	all, err := repo.List("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, rv := range all {
		assert.Equal(t, "Toni Morrison", rv.BookAuthor)
		assert.Equal(t, "https://covers/beloved.jpg", rv.BookCover)
	}

	pending, err := repo.List(entities.ReviewStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Beloved", pending[0].BookTitle)

	approved, err := repo.List(entities.ReviewStatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Custom", approved[0].BookTitle)
}

func TestRepository_Delete(t *testing.T) {
	repo, _ := setupTestDB(t)

	rv := &entities.Review{BookID: 1, Rating: 2, Status: entities.ReviewStatusApproved}
	require.NoError(t, repo.Create(rv))

	deleted, err := repo.Delete(rv.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ReviewStatusApproved, deleted.Status)
	assert.Equal(t, uint(1), deleted.BookID)

	_, err = repo.Delete(rv.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
