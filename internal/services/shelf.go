package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/entities"
)

const (
	DefaultRecommendations = 5
	MaxRecommendations     = 20
	recommendationGenres   = 3
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrNotOnShelf         = errors.New("book not found in shelf")
	ErrInvalidShelfStatus = errors.New("status must be one of: Want to Read, Currently Reading, Read")
	ErrInvalidProgress    = errors.New("progress and total_pages must not be negative")
	ErrInvalidGoal        = errors.New("goal must be at least 1")
)

// ProgressUpdate is a partial change to a shelf item. Nil and zero fields
// are left as stored.
type ProgressUpdate struct {
	Progress   *int
	TotalPages int
	Status     entities.ShelfStatus
}

// ReadingStats summarises a user's shelf.
type ReadingStats struct {
	WantToRead       int64   `json:"want_to_read"`
	CurrentlyReading int64   `json:"currently_reading"`
	Read             int64   `json:"read"`
	TotalBooks       int64   `json:"total_books"`
	PagesRead        int64   `json:"pages_read"`
	GoalYear         int     `json:"goal_year"`
	Goal             int     `json:"goal"`
	FinishedInYear   int64   `json:"finished_in_goal_year"`
	GoalPercent      int     `json:"goal_percent"`
	AverageRating    float64 `json:"average_rating"`
	ReviewsCount     int64   `json:"reviews_count"`
}

// Recommendations is a list of suggested books and the genres they came from.
type Recommendations struct {
	Books   []entities.Book `json:"books"`
	BasedOn []string        `json:"based_on"`
}

// ShelfService tracks which books a user is reading and how far along they are.
type ShelfService struct {
	shelves  ShelfStore
	books    ShelfBooks
	accounts ReaderAccounts
	ratings  UserRatings
	now      func() time.Time
}

func NewShelfService(shelves ShelfStore, books ShelfBooks, accounts ReaderAccounts, ratings UserRatings) *ShelfService {
	return &ShelfService{
		shelves:  shelves,
		books:    books,
		accounts: accounts,
		ratings:  ratings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Add puts a book on the user's shelf, or changes its status when it is
// already there. The boolean reports whether a new item was created.
func (s *ShelfService) Add(userID, bookID uint, status entities.ShelfStatus) (*entities.ShelfItem, bool, error) {
	if status == "" {
		status = entities.ShelfStatusWantToRead
	}
	if !status.Valid() {
		return nil, false, ErrInvalidShelfStatus
	}
	if err := s.requireUser(userID); err != nil {
		return nil, false, err
	}

	book, err := s.books.GetByID(bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrBookNotFound
		}
		return nil, false, fmt.Errorf("failed to load book %d: %w", bookID, err)
	}

	now := s.now()
	item, err := s.shelves.Get(userID, bookID)
	if err == nil {
		applyStatus(item, status, now)
		if err := s.shelves.Save(item); err != nil {
			return nil, false, fmt.Errorf("failed to update shelf item: %w", err)
		}
		return item, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to load shelf item: %w", err)
	}

	item = &entities.ShelfItem{
		UserID:     userID,
		BookID:     bookID,
		TotalPages: book.TotalPages,
		AddedAt:    now,
	}
	applyStatus(item, status, now)
	if err := s.shelves.Create(item); err != nil {
		return nil, false, fmt.Errorf("failed to add to shelf: %w", err)
	}
	if err := s.books.IncrementShelvedCount(bookID); err != nil {
		return nil, false, fmt.Errorf("failed to update shelved count: %w", err)
	}
	return item, true, nil
}

// UpdateProgress records reading progress. Reaching the last page of a book
// with a known page count marks it Read.
func (s *ShelfService) UpdateProgress(userID, bookID uint, upd ProgressUpdate) (*entities.ShelfItem, error) {
	if (upd.Progress != nil && *upd.Progress < 0) || upd.TotalPages < 0 {
		return nil, ErrInvalidProgress
	}
	if upd.Status != "" && !upd.Status.Valid() {
		return nil, ErrInvalidShelfStatus
	}

	item, err := s.shelves.Get(userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotOnShelf
		}
		return nil, fmt.Errorf("failed to load shelf item: %w", err)
	}

	now := s.now()
	if upd.Progress != nil {
		item.Progress = *upd.Progress
	}
	if upd.TotalPages > 0 {
		item.TotalPages = upd.TotalPages
	}

	status := upd.Status
	if item.TotalPages > 0 && item.Progress >= item.TotalPages {
		status = entities.ShelfStatusRead
	}
	if status != "" {
		applyStatus(item, status, now)
	}

	if err := s.shelves.Save(item); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	return item, nil
}

// applyStatus moves an item to status, stamping the reading timestamps the
// transition implies.
func applyStatus(item *entities.ShelfItem, status entities.ShelfStatus, now time.Time) {
	item.Status = status
	switch status {
	case entities.ShelfStatusCurrentlyReading:
		if item.StartedAt == nil {
			item.StartedAt = &now
		}
		item.FinishedAt = nil
	case entities.ShelfStatusRead:
		if item.FinishedAt == nil {
			item.FinishedAt = &now
		}
	default:
		item.FinishedAt = nil
	}
}

// List returns the user's shelf, optionally narrowed to one status.
func (s *ShelfService) List(userID uint, status entities.ShelfStatus) ([]entities.ShelfItem, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidShelfStatus
	}
	return s.shelves.List(userID, status)
}

// Stats computes the reading summary shown on a user's profile.
func (s *ShelfService) Stats(userID uint) (*ReadingStats, error) {
	user, err := s.accounts.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	counts, err := s.shelves.CountByStatus(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count shelf: %w", err)
	}
	pages, err := s.shelves.PagesRead(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum progress: %w", err)
	}

	year := user.GoalYear
	if year == 0 {
		year = s.now().Year()
	}
	finished, err := s.shelves.FinishedInYear(userID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to count finished books: %w", err)
	}

	avg, reviews, err := s.ratings.AverageByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to average ratings: %w", err)
	}

	stats := &ReadingStats{
		WantToRead:       counts[entities.ShelfStatusWantToRead],
		CurrentlyReading: counts[entities.ShelfStatusCurrentlyReading],
		Read:             counts[entities.ShelfStatusRead],
		PagesRead:        pages,
		GoalYear:         year,
		Goal:             user.ReadingGoal,
		FinishedInYear:   finished,
		AverageRating:    Round1(avg),
		ReviewsCount:     reviews,
	}
	stats.TotalBooks = stats.WantToRead + stats.CurrentlyReading + stats.Read
	if user.ReadingGoal > 0 {
		stats.GoalPercent = int(min(100, finished*100/int64(user.ReadingGoal)))
	}
	return stats, nil
}

// SetGoal stores the number of books the user wants to finish in year.
// A zero year means the current one.
func (s *ShelfService) SetGoal(userID uint, goal, year int) (*entities.User, error) {
	if goal < 1 {
		return nil, ErrInvalidGoal
	}
	if year == 0 {
		year = s.now().Year()
	}
	user, err := s.accounts.SetReadingGoal(userID, goal, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Recommend suggests unshelved books from the genres the user shelves most,
// best rated first, topped up from the whole catalog when those run short.
func (s *ShelfService) Recommend(userID uint, limit int) (*Recommendations, error) {
	if limit <= 0 {
		limit = DefaultRecommendations
	}
	if limit > MaxRecommendations {
		limit = MaxRecommendations
	}

	genres, err := s.shelves.TopGenres(userID, recommendationGenres)
	if err != nil {
		return nil, fmt.Errorf("failed to find favourite genres: %w", err)
	}
	exclude, err := s.shelves.BookIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shelf: %w", err)
	}

	result := &Recommendations{Books: []entities.Book{}, BasedOn: []string{}}
	if len(genres) > 0 {
		picks, err := s.books.TopRated(genres, exclude, limit)
		if err != nil {
			return nil, err
		}
		result.Books = append(result.Books, picks...)
		result.BasedOn = genres
		for _, b := range picks {
			exclude = append(exclude, b.ID)
		}
	}

	if missing := limit - len(result.Books); missing > 0 {
		fill, err := s.books.TopRated(nil, exclude, missing)
		if err != nil {
			return nil, err
		}
		result.Books = append(result.Books, fill...)
	}
	return result, nil
}

func (s *ShelfService) requireUser(userID uint) error {
	if _, err := s.accounts.GetUserByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
