package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"
)

// RatingService keeps each book's rating equal to the average of its
// approved reviews.
type RatingService struct {
	books   RatingWriter
	reviews ApprovedRatings
}

func NewRatingService(books RatingWriter, reviews ApprovedRatings) *RatingService {
	return &RatingService{books: books, reviews: reviews}
}

// Recompute refreshes one book's rating and total_ratings from its approved
// reviews. A book with no approved reviews is rated 0. Missing books are
// skipped silently.
func (s *RatingService) Recompute(bookID uint) (float64, int, error) {
	avg, count, err := s.reviews.ApprovedStats(bookID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings for book %d: %w", bookID, err)
	}

	rating := 0.0
	if count > 0 {
		rating = Round1(avg)
	}

	if err := s.books.UpdateRating(bookID, rating, int(count)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rating, int(count), nil
		}
		return 0, 0, fmt.Errorf("failed to store rating for book %d: %w", bookID, err)
	}
	return rating, int(count), nil
}

// RecomputeAll refreshes every book and returns how many were processed.
func (s *RatingService) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := s.books.AllIDs()
	if err != nil {
		return 0, fmt.Errorf("failed to list books: %w", err)
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, _, err := s.Recompute(id); err != nil {
			return i, err
		}
	}
	return len(ids), nil
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
