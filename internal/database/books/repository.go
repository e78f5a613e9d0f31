// Package books provides database operations for the book catalog.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	list, total, err := repo.List(books.Filter{Search: "dune", Page: 1, Limit: 10})
//
// Search relies on the fold() SQL function, so db must be opened through
// database.Dialector.
package books

import (
	"strings"

	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/database"
	"github.com/storyarc/storyarc/internal/entities"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Sort keys accepted by Filter.Sort. Anything else sorts newest first.
const (
	SortRatingDesc  = "rating_desc"
	SortShelvedDesc = "shelved_desc"
	SortTitleAsc    = "title_asc"
	SortTitleDesc   = "title_desc"
)

// Filter narrows a catalog listing.
type Filter struct {
	Search    string   // substring of title or author, case-insensitive
	Genres    []string // OR'ed; "Uncategorized" matches books without a genre
	MinRating *float64
	MaxRating *float64
	Sort      string
	Page      int
	Limit     int
}

// Normalize clamps paging values into their allowed range.
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
}

// Patch carries a partial book update. Nil fields are left untouched.
type Patch struct {
	Title         *string
	Author        *string
	Genre         *string
	Description   *string
	Cover         *string
	TotalPages    *int
	PublishedYear *int
}

func (p Patch) columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Author != nil {
		cols["author"] = *p.Author
	}
	if p.Genre != nil {
		cols["genre"] = *p.Genre
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Cover != nil {
		cols["cover"] = *p.Cover
	}
	if p.TotalPages != nil {
		cols["total_pages"] = *p.TotalPages
	}
	if p.PublishedYear != nil {
		cols["published_year"] = *p.PublishedYear
	}
	return cols
}

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of books matching f together with the total number of matches.
func (r *Repository) List(f Filter) ([]entities.Book, int64, error) {
	f.Normalize()

	query := applyFilter(r.db.Model(&entities.Book{}), f)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []entities.Book
	err := query.Order(orderFor(f.Sort)).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&books).Error
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyFilter(query *gorm.DB, f Filter) *gorm.DB {
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + likeEscaper.Replace(database.Fold(s)) + "%"
		query = query.Where(`(fold(COALESCE(title, '')) LIKE ? ESCAPE '\' OR fold(COALESCE(author, '')) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	names, uncategorized := genreGroups(f.Genres)
	switch {
	case uncategorized && len(names) > 0:
		query = query.Where("(genre IN ? OR genre = '' OR genre IS NULL)", names)
	case uncategorized:
		query = query.Where("(genre = '' OR genre IS NULL)")
	case len(names) > 0:
		query = query.Where("genre IN ?", names)
	}

	if f.MinRating != nil {
		query = query.Where("rating >= ?", *f.MinRating)
	}
	if f.MaxRating != nil {
		query = query.Where("rating <= ?", *f.MaxRating)
	}
	return query
}

// genreGroups splits requested genres into exact names and the
// uncategorized marker. "All Genres" anywhere disables the filter.
func genreGroups(genres []string) (names []string, uncategorized bool) {
	for _, g := range genres {
		g = strings.TrimSpace(g)
		switch g {
		case "":
		case entities.AllGenres:
			return nil, false
		case entities.UncategorizedGenre:
			uncategorized = true
		default:
			names = append(names, g)
		}
	}
	return names, uncategorized
}

func orderFor(sort string) string {
	switch sort {
	case SortRatingDesc:
		return "rating DESC, total_ratings DESC, id DESC"
	case SortShelvedDesc:
		return "shelved_count DESC, id DESC"
	case SortTitleAsc:
		return "title ASC"
	case SortTitleDesc:
		return "title DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// DistinctGenres returns the sorted set of genres in use. Uncategorized is
// appended when at least one book has no genre.
func (r *Repository) DistinctGenres() ([]string, error) {
	var genres []string
	err := r.db.Model(&entities.Book{}).
		Where("genre IS NOT NULL AND genre <> ''").
		Distinct("genre").
		Order("genre ASC").
		Pluck("genre", &genres).Error
	if err != nil {
		return nil, err
	}

	var uncategorized int64
	if err := r.db.Model(&entities.Book{}).Where("genre IS NULL OR genre = ''").Count(&uncategorized).Error; err != nil {
		return nil, err
	}
	if uncategorized > 0 {
		genres = append(genres, entities.UncategorizedGenre)
	}
	if genres == nil {
		genres = []string{}
	}
	return genres, nil
}

// GetByID retrieves a book by its ID.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByTitleAndAuthor retrieves a book by its exact title and author.
func (r *Repository) FindByTitleAndAuthor(title, author string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("title = ? AND author = ?", title, author).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book. Rating aggregates always start at zero.
func (r *Repository) Create(book *entities.Book) error {
	book.ID = 0
	book.Rating = 0
	book.TotalRatings = 0
	book.ShelvedCount = 0
	return r.db.Create(book).Error
}

// Update applies a partial update and returns the stored book.
func (r *Repository) Update(id uint, patch Patch) (*entities.Book, error) {
	book, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cols := patch.columns(); len(cols) > 0 {
		if err := r.db.Model(book).Updates(cols).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(id)
}

// Delete removes a book together with its reviews and shelf items.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Review{}).Error; err != nil {
			return err
		}
		return tx.Where("book_id = ?", id).Delete(&entities.ShelfItem{}).Error
	})
}

// UpdateRating stores recomputed rating aggregates for a book.
func (r *Repository) UpdateRating(id uint, rating float64, totalRatings int) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(map[string]any{
		"rating":        rating,
		"total_ratings": totalRatings,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementShelvedCount bumps the number of shelves holding a book.
func (r *Repository) IncrementShelvedCount(id uint) error {
	return r.db.Model(&entities.Book{}).Where("id = ?", id).
		UpdateColumn("shelved_count", gorm.Expr("shelved_count + ?", 1)).Error
}

// Count returns the number of books in the catalog.
func (r *Repository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&entities.Book{}).Count(&n).Error
	return n, err
}

// AllIDs returns every book ID, used by bulk maintenance jobs.
func (r *Repository) AllIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entities.Book{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// CountByGenre reports books per genre, with books lacking a genre folded
// into Uncategorized. Buckets are ordered by size, largest first.
func (r *Repository) CountByGenre() ([]entities.GenreCount, error) {
	var rows []entities.GenreCount
	err := r.db.Model(&entities.Book{}).
		Select("COALESCE(genre, '') AS name, COUNT(*) AS value").
		Group("COALESCE(genre, '')").
		Order("value DESC, name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]entities.GenreCount, 0, len(rows))
	uncategorizedAt := -1
	for _, row := range rows {
		if row.Name == "" || row.Name == entities.UncategorizedGenre {
			if uncategorizedAt >= 0 {
				result[uncategorizedAt].Value += row.Value
				continue
			}
			row.Name = entities.UncategorizedGenre
			uncategorizedAt = len(result)
		}
		result = append(result, row)
	}
	return result, nil
}

// TopRated returns the best rated books outside exclude, optionally limited
// to the given genres.
func (r *Repository) TopRated(genres []string, exclude []uint, limit int) ([]entities.Book, error) {
	query := r.db.Model(&entities.Book{})
	if len(genres) > 0 {
		query = query.Where("genre IN ?", genres)
	}
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var books []entities.Book
	err := query.Order("rating DESC, total_ratings DESC, shelved_count DESC, id ASC").
		Limit(limit).
		Find(&books).Error
	return books, err
}
