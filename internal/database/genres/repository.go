// Package genres provides database operations for genre management.
//
// Books reference genres by name, so renames and deletes rewrite the
// matching books inside the same transaction.
//
// # Usage
//
//	repo := genres.NewRepository(db)
//	genre, err := repo.Create("Fantasy")
package genres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/entities"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

var ErrGenreExists = errors.New("genre already exists")

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of genres sorted by name, each with its book count.
func (r *Repository) List(page, limit int) ([]entities.GenreWithCount, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var total int64
	if err := r.db.Model(&entities.Genre{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	genres := []entities.GenreWithCount{}
	err := r.db.Table("genres").
		Select("genres.id, genres.name, genres.created_at, " +
			"(SELECT COUNT(*) FROM books WHERE books.genre = genres.name) AS book_count").
		Order("genres.name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(&genres).Error
	if err != nil {
		return nil, 0, err
	}
	return genres, total, nil
}

// GetByID retrieves a genre by ID.
func (r *Repository) GetByID(id uint) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

// GetByName retrieves a genre by name (case-insensitive).
func (r *Repository) GetByName(name string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).First(&genre).Error
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// Create inserts a genre. Names are unique regardless of case.
func (r *Repository) Create(name string) (*entities.Genre, error) {
	name = strings.TrimSpace(name)
	if _, err := r.GetByName(name); err == nil {
		return nil, ErrGenreExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	genre := &entities.Genre{Name: name}
	if err := r.db.Create(genre).Error; err != nil {
		return nil, err
	}
	return genre, nil
}

// GetOrCreate returns the genre with the given name, creating it if needed.
func (r *Repository) GetOrCreate(name string) (*entities.Genre, bool, error) {
	genre, err := r.GetByName(name)
	if err == nil {
		return genre, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	genre, err = r.Create(name)
	if err != nil {
		return nil, false, err
	}
	return genre, true, nil
}

// Rename changes a genre's name and moves every book filed under the old
// name to the new one.
func (r *Repository) Rename(id uint, name string) (*entities.Genre, error) {
	name = strings.TrimSpace(name)
	var genre entities.Genre

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&genre, id).Error; err != nil {
			return err
		}
		oldName := genre.Name
		if oldName == name {
			return nil
		}

		var clash int64
		err := tx.Model(&entities.Genre{}).
			Where("LOWER(name) = LOWER(?) AND id <> ?", name, id).
			Count(&clash).Error
		if err != nil {
			return err
		}
		if clash > 0 {
			return ErrGenreExists
		}

		if err := tx.Model(&genre).Update("name", name).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Book{}).
			Where("genre = ?", oldName).
			Update("genre", name).Error
	})
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// Delete removes a genre and clears it from every book that used it.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var genre entities.Genre
		if err := tx.First(&genre, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&genre).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Book{}).
			Where("genre = ?", genre.Name).
			Update("genre", "").Error
	})
}
