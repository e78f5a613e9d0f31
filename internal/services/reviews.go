package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/entities"
)

const (
	UnknownBookTitle  = "Unknown Book"
	UnknownBookAuthor = "Unknown Author"
)

var (
	ErrRatingOutOfRange = fmt.Errorf("rating must be between %d and %d", entities.MinReviewRating, entities.MaxReviewRating)
	ErrCommentRequired  = errors.New("comment is required")
	ErrBookIDRequired   = errors.New("book_id is required")
)

// Reviewer is the identity attached to a submitted review.
type Reviewer struct {
	ID    uint
	Email string
	Name  string
	Image string
}

// ReviewSubmission is a new review as sent by a reader.
type ReviewSubmission struct {
	BookID     uint
	Rating     int
	Comment    string
	BookTitle  string
	BookAuthor string
	BookCover  string
}

// ReviewService runs the submit/approve/delete moderation flow.
type ReviewService struct {
	reviews ReviewStore
	books   BookReader
	ratings *RatingService
}

func NewReviewService(reviews ReviewStore, books BookReader, ratings *RatingService) *ReviewService {
	return &ReviewService{reviews: reviews, books: books, ratings: ratings}
}

// Submit stores a pending review. The book's rating is left untouched until
// the review is approved.
func (s *ReviewService) Submit(reviewer Reviewer, in ReviewSubmission) (*entities.Review, error) {
	if in.BookID == 0 {
		return nil, ErrBookIDRequired
	}
	if in.Rating < entities.MinReviewRating || in.Rating > entities.MaxReviewRating {
		return nil, ErrRatingOutOfRange
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, ErrCommentRequired
	}

	title, author, cover := in.BookTitle, in.BookAuthor, in.BookCover
	if title == "" || author == "" {
		book, err := s.books.GetByID(in.BookID)
		switch {
		case err == nil:
			title, author, cover = book.Title, book.Author, book.Cover
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to load book %d: %w", in.BookID, err)
		}
	}
	if title == "" {
		title = UnknownBookTitle
	}
	if author == "" {
		author = UnknownBookAuthor
	}

	review := &entities.Review{
		BookID:     in.BookID,
		BookTitle:  title,
		BookAuthor: author,
		BookCover:  cover,
		UserID:     reviewer.ID,
		UserEmail:  reviewer.Email,
		UserName:   reviewer.Name,
		UserImage:  reviewer.Image,
		Rating:     in.Rating,
		Comment:    comment,
		Status:     entities.ReviewStatusPending,
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	return review, nil
}

// Approve publishes a review and refreshes its book's rating.
func (s *ReviewService) Approve(id uint) (*entities.Review, error) {
	review, err := s.reviews.Approve(id)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.ratings.Recompute(review.BookID); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review. Deleting an approved review refreshes its book's
// rating.
func (s *ReviewService) Delete(id uint) (*entities.Review, error) {
	review, err := s.reviews.Delete(id)
	if err != nil {
		return nil, err
	}
	if review.Status == entities.ReviewStatusApproved {
		if _, _, err := s.ratings.Recompute(review.BookID); err != nil {
			return nil, err
		}
	}
	return review, nil
}
