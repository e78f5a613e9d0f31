package services

import "github.com/storyarc/storyarc/internal/entities"

// BookReader provides read-only access to the catalog.
type BookReader interface {
	GetByID(id uint) (*entities.Book, error)
}

// RatingWriter persists recomputed rating aggregates.
type RatingWriter interface {
	UpdateRating(id uint, rating float64, totalRatings int) error
	AllIDs() ([]uint, error)
}

// ApprovedRatings aggregates the approved reviews of a book.
type ApprovedRatings interface {
	ApprovedStats(bookID uint) (float64, int64, error)
}

// ReviewStore is the review persistence the moderation flow needs.
type ReviewStore interface {
	ApprovedRatings
	Create(review *entities.Review) error
	Approve(id uint) (*entities.Review, error)
	Delete(id uint) (*entities.Review, error)
}

// ShelfStore persists shelf items and answers per-user shelf aggregates.
type ShelfStore interface {
	Get(userID, bookID uint) (*entities.ShelfItem, error)
	Create(item *entities.ShelfItem) error
	Save(item *entities.ShelfItem) error
	List(userID uint, status entities.ShelfStatus) ([]entities.ShelfItem, error)
	CountByStatus(userID uint) (map[entities.ShelfStatus]int64, error)
	PagesRead(userID uint) (int64, error)
	FinishedInYear(userID uint, year int) (int64, error)
	BookIDs(userID uint) ([]uint, error)
	TopGenres(userID uint, n int) ([]string, error)
}

// ShelfBooks is the catalog access the shelf flow needs.
type ShelfBooks interface {
	BookReader
	IncrementShelvedCount(id uint) error
	TopRated(genres []string, exclude []uint, limit int) ([]entities.Book, error)
}

// ReaderAccounts is the user access the shelf flow needs.
type ReaderAccounts interface {
	GetUserByID(id uint) (*entities.User, error)
	SetReadingGoal(id uint, goal, year int) (*entities.User, error)
}

// UserRatings reports the ratings a user gave in approved reviews.
type UserRatings interface {
	AverageByUser(userID uint) (float64, int64, error)
}

// TutorialStore persists tutorials.
type TutorialStore interface {
	GetByID(id uint) (*entities.Tutorial, error)
	Create(tutorial *entities.Tutorial) error
	Save(tutorial *entities.Tutorial) error
}
