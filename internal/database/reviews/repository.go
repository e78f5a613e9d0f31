// Package reviews provides database operations for book reviews and their
// moderation.
//
// # Usage
//
//	repo := reviews.NewRepository(db)
//	avg, count, err := repo.ApprovedStats(bookID)
package reviews

import (
	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/entities"
)

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a review.
func (r *Repository) Create(review *entities.Review) error {
	if review.Status == "" {
		review.Status = entities.ReviewStatusPending
	}
	return r.db.Create(review).Error
}

// GetByID retrieves a review by ID.
func (r *Repository) GetByID(id uint) (*entities.Review, error) {
	var review entities.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ApprovedForBook returns the approved reviews of a book, newest first.
func (r *Repository) ApprovedForBook(bookID uint) ([]entities.Review, error) {
	reviews := []entities.Review{}
	err := r.db.Where("book_id = ? AND status = ?", bookID, entities.ReviewStatusApproved).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error
	return reviews, err
}

// List returns reviews with the given status (all when empty), newest
// first. Book details missing on a review are filled from the book.
func (r *Repository) List(status entities.ReviewStatus) ([]entities.Review, error) {
	query := r.db.Model(&entities.Review{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	reviews := []entities.Review{}
	if err := query.Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}

	var missing []uint
	for _, rv := range reviews {
		if rv.BookTitle == "" || rv.BookAuthor == "" || rv.BookCover == "" {
			missing = append(missing, rv.BookID)
		}
	}
	if len(missing) == 0 {
		return reviews, nil
	}

	var books []entities.Book
	if err := r.db.Where("id IN ?", missing).Find(&books).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]entities.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	for i := range reviews {
		b, ok := byID[reviews[i].BookID]
		if !ok {
			continue
		}
		if reviews[i].BookTitle == "" {
			reviews[i].BookTitle = b.Title
		}
		if reviews[i].BookAuthor == "" {
			reviews[i].BookAuthor = b.Author
		}
		if reviews[i].BookCover == "" {
			reviews[i].BookCover = b.Cover
		}
	}
	return reviews, nil
}

// Approve marks a review approved and returns it.
func (r *Repository) Approve(id uint) (*entities.Review, error) {
	review, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(review).Update("status", entities.ReviewStatusApproved).Error; err != nil {
		return nil, err
	}
	review.Status = entities.ReviewStatusApproved
	return review, nil
}

// Delete removes a review and returns what was deleted.
func (r *Repository) Delete(id uint) (*entities.Review, error) {
	review, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// ApprovedStats returns the average rating and number of approved reviews
// of a book. The average is zero when there are none.
func (r *Repository) ApprovedStats(bookID uint) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&entities.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("book_id = ? AND status = ?", bookID, entities.ReviewStatusApproved).
		Scan(&row).Error
	return row.Avg, row.Count, err
}

// AverageByUser returns the average rating a user gave across their
// approved reviews, and how many there are.
func (r *Repository) AverageByUser(userID uint) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&entities.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("user_id = ? AND status = ?", userID, entities.ReviewStatusApproved).
		Scan(&row).Error
	return row.Avg, row.Count, err
}

// CountByStatus returns how many reviews have the given status.
func (r *Repository) CountByStatus(status entities.ReviewStatus) (int64, error) {
	var n int64
	err := r.db.Model(&entities.Review{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
