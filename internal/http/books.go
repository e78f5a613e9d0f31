package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/audit"
	"github.com/storyarc/storyarc/internal/database/books"
	"github.com/storyarc/storyarc/internal/entities"
)

type BooksController struct {
	store   BookStore
	auditor Auditor
}

func NewBooksController(store BookStore, auditor Auditor) *BooksController {
	return &BooksController{
		store:   store,
		auditor: auditorOrNoop(auditor),
	}
}

type createBookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	Genre         string `json:"genre"`
	Description   string `json:"description"`
	Cover         string `json:"cover"`
	TotalPages    int    `json:"total_pages" binding:"gte=0"`
	PublishedYear int    `json:"published_year"`
}

type updateBookRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1"`
	Author        *string `json:"author" binding:"omitempty,min=1"`
	Genre         *string `json:"genre"`
	Description   *string `json:"description"`
	Cover         *string `json:"cover"`
	TotalPages    *int    `json:"total_pages" binding:"omitempty,gte=0"`
	PublishedYear *int    `json:"published_year"`
}

// ListBooks handles GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	filter, ok := parseBookFilter(c)
	if !ok {
		return
	}

	list, total, err := bc.store.List(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books":        list,
		"total_books":  total,
		"total_pages":  totalPages(total, filter.Limit),
		"current_page": filter.Page,
	})
}

func parseBookFilter(c *gin.Context) (books.Filter, bool) {
	page, limit, ok := parsePagination(c, books.DefaultLimit, books.MaxLimit)
	if !ok {
		return books.Filter{}, false
	}

	f := books.Filter{
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   c.Query("sort"),
		Page:   page,
		Limit:  limit,
	}
	if raw := c.Query("genre"); raw != "" {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				f.Genres = append(f.Genres, g)
			}
		}
	}

	bounds := []struct {
		name string
		dst  **float64
	}{
		{"minRating", &f.MinRating},
		{"maxRating", &f.MaxRating},
	}
	for _, b := range bounds {
		raw := c.Query(b.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondBadRequest(c, "invalid "+b.name)
			return books.Filter{}, false
		}
		*b.dst = &v
	}

	f.Normalize()
	return f, true
}

// ListGenres handles GET /api/books/genres
func (bc *BooksController) ListGenres(c *gin.Context) {
	genres, err := bc.store.DistinctGenres()
	if err != nil {
		respondInternalError(c, err, "list book genres")
		return
	}
	c.JSON(http.StatusOK, genres)
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook handles POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	book := &entities.Book{
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		Genre:         strings.TrimSpace(req.Genre),
		Description:   req.Description,
		Cover:         req.Cover,
		TotalPages:    req.TotalPages,
		PublishedYear: req.PublishedYear,
	}
	if err := bc.store.Create(book); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, gin.H{
		"message": "Book created successfully",
		"book_id": book.ID,
	})
}

// UpdateBook handles PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	book, err := bc.store.Update(id, books.Patch{
		Title:         trimmed(req.Title),
		Author:        trimmed(req.Author),
		Genre:         trimmed(req.Genre),
		Description:   req.Description,
		Cover:         req.Cover,
		TotalPages:    req.TotalPages,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book updated successfully",
		"book":    book,
	})
}

// DeleteBook handles DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.store.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "book")
		return
	}
	bc.auditor.LogAction(auditActor(c), entities.AuditEventBook, "book_delete", "book", id,
		"Deleted book "+audit.FormatID(id), nil, err)
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	respondSuccess(c, "Book deleted successfully")
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
