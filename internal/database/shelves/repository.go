// Package shelves provides database operations for per-user shelves and
// the reading statistics derived from them.
//
// # Usage
//
//	repo := shelves.NewRepository(db)
//	items, err := repo.List(userID, entities.ShelfStatusCurrentlyReading)
package shelves

import (
	"time"

	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/entities"
)

// Repository handles all shelf database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new shelves repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the shelf item for a user's book.
func (r *Repository) Get(userID, bookID uint) (*entities.ShelfItem, error) {
	var item entities.ShelfItem
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) Create(item *entities.ShelfItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	return r.db.Create(item).Error
}

// Save writes every field of an existing shelf item.
func (r *Repository) Save(item *entities.ShelfItem) error {
	return r.db.Omit("Book").Save(item).Error
}

// List returns a user's shelf, optionally narrowed to one status, most
// recently touched first. Each item carries its book.
func (r *Repository) List(userID uint, status entities.ShelfStatus) ([]entities.ShelfItem, error) {
	query := r.db.Preload("Book").Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	items := []entities.ShelfItem{}
	err := query.Order("updated_at DESC, id DESC").Find(&items).Error
	return items, err
}

// CountByStatus returns the number of a user's shelf items per status.
func (r *Repository) CountByStatus(userID uint) (map[entities.ShelfStatus]int64, error) {
	var rows []struct {
		Status entities.ShelfStatus
		Count  int64
	}
	err := r.db.Model(&entities.ShelfItem{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.ShelfStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// PagesRead sums the recorded progress across a user's shelf.
func (r *Repository) PagesRead(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&entities.ShelfItem{}).
		Select("COALESCE(SUM(progress), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}

// FinishedInYear counts the books a user finished during the given year.
func (r *Repository) FinishedInYear(userID uint, year int) (int64, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	var n int64
	err := r.db.Model(&entities.ShelfItem{}).
		Where("user_id = ? AND status = ?", userID, entities.ShelfStatusRead).
		Where("finished_at >= ? AND finished_at < ?", start, end).
		Count(&n).Error
	return n, err
}

// BookIDs returns the IDs of every book on a user's shelf.
func (r *Repository) BookIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entities.ShelfItem{}).Where("user_id = ?", userID).Pluck("book_id", &ids).Error
	return ids, err
}

// TopGenres returns up to n genres the user shelves most, most frequent first.
func (r *Repository) TopGenres(userID uint, n int) ([]string, error) {
	var genres []string
	err := r.db.Table("shelf_items").
		Select("books.genre").
		Joins("JOIN books ON books.id = shelf_items.book_id").
		Where("shelf_items.user_id = ? AND books.genre IS NOT NULL AND books.genre <> ''", userID).
		Group("books.genre").
		Order("COUNT(*) DESC, books.genre ASC").
		Limit(n).
		Pluck("books.genre", &genres).Error
	return genres, err
}
