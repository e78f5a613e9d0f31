// Package tutorials provides database operations for video tutorials.
package tutorials

import (
	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/entities"
)

const (
	DefaultLimit = 9
	MaxLimit     = 100
)

// Repository handles all tutorial database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tutorials repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of tutorials, newest first.
func (r *Repository) List(page, limit int) ([]entities.Tutorial, int64, error) {
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
	if err := r.db.Model(&entities.Tutorial{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tutorials := []entities.Tutorial{}
	err := r.db.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&tutorials).Error
	return tutorials, total, err
}

// GetByID retrieves a tutorial by ID.
func (r *Repository) GetByID(id uint) (*entities.Tutorial, error) {
	var tutorial entities.Tutorial
	if err := r.db.First(&tutorial, id).Error; err != nil {
		return nil, err
	}
	return &tutorial, nil
}

// GetByURL retrieves a tutorial by its video URL.
func (r *Repository) GetByURL(url string) (*entities.Tutorial, error) {
	var tutorial entities.Tutorial
	if err := r.db.Where("url = ?", url).First(&tutorial).Error; err != nil {
		return nil, err
	}
	return &tutorial, nil
}

func (r *Repository) Create(tutorial *entities.Tutorial) error {
	return r.db.Create(tutorial).Error
}

// Save writes every field of an existing tutorial.
func (r *Repository) Save(tutorial *entities.Tutorial) error {
	return r.db.Save(tutorial).Error
}

func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Tutorial{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
