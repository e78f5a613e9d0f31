package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyarc/storyarc/internal/entities"
)

type bookList struct {
	Books       []entities.Book `json:"books"`
	TotalBooks  int64           `json:"total_books"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
}

func TestBooksController_ListBooks(t *testing.T) {
	env := newTestEnv(t)
	dune := env.book(t, "Dune", "Frank Herbert", "Science Fiction", 600)
	env.book(t, "Emma", "Jane Austen", "Classics", 400)
	env.book(t, "Notes", "Anon", "", 100)
	require.NoError(t, env.books.UpdateRating(dune.ID, 4.5, 2))

	t.Run("returns everything with paging metadata", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/books", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[bookList](t, w)
		assert.Equal(t, int64(3), resp.TotalBooks)
		assert.Equal(t, 1, resp.TotalPages)
		assert.Equal(t, 1, resp.CurrentPage)
		assert.Len(t, resp.Books, 3)
	})

	t.Run("filters by search and genre", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/books?search=HERBERT&genre=Science%20Fiction,Classics", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[bookList](t, w)
		require.Len(t, resp.Books, 1)
		assert.Equal(t, "Dune", resp.Books[0].Title)
	})

	t.Run("uncategorized matches books without a genre", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/books?genre=Uncategorized", "", nil)
		resp := decode[bookList](t, w)
		require.Len(t, resp.Books, 1)
		assert.Equal(t, "Notes", resp.Books[0].Title)
	})

	t.Run("filters by rating bounds", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/books?minRating=4&maxRating=5", "", nil)
		resp := decode[bookList](t, w)
		require.Len(t, resp.Books, 1)
		assert.Equal(t, dune.ID, resp.Books[0].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/books?sort=title_asc&page=2&limit=2", "", nil)
		resp := decode[bookList](t, w)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Equal(t, 2, resp.CurrentPage)
		require.Len(t, resp.Books, 1)
		assert.Equal(t, "Notes", resp.Books[0].Title)
	})

	t.Run("rejects malformed rating", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/books?minRating=high", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooksController_SearchTreatsInputLiterally(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, "Dune", "Frank Herbert", "", 600)
	env.book(t, "Emma", "Jane Austen", "", 400)
	env.book(t, "Émile", "Jean-Jacques Rousseau", "", 500)

	tests := []struct {
		query string
		want  int64
	}{
		{query: "_", want: 0},
		{query: "%25", want: 0},
		{query: "%C3%A9mile", want: 1},
		{query: "%C3%89MILE", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/books?search="+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, decode[bookList](t, w).TotalBooks)
		})
	}
}

func TestBooksController_ListGenres(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, "Dune", "Frank Herbert", "Science Fiction", 0)
	env.book(t, "Emma", "Jane Austen", "Classics", 0)
	env.book(t, "Notes", "Anon", "", 0)

	w := env.do(t, http.MethodGet, "/api/books/genres", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Classics", "Science Fiction", entities.UncategorizedGenre}, decode[[]string](t, w))
}

func TestBooksController_GetBook(t *testing.T) {
	env := newTestEnv(t)
	b := env.book(t, "Dune", "Frank Herbert", "Science Fiction", 0)

	w := env.do(t, http.MethodGet, "/api/books/"+idPath(b.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dune", decode[entities.Book](t, w).Title)

	w = env.do(t, http.MethodGet, "/api/books/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "book not found", decode[ErrorResponse](t, w).Error)

	w = env.do(t, http.MethodGet, "/api/books/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_Mutations(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.admin(t)
	_, readerToken := env.reader(t)
	newBook := map[string]any{"title": "Dune", "author": "Frank Herbert", "genre": "Science Fiction", "total_pages": 600}

	t.Run("requires a token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/books", "", newBook)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("requires the admin role", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/books", readerToken, newBook)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("validates the body", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/books", adminToken, map[string]any{"title": "No Author"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var bookID uint
	t.Run("creates", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/books", adminToken, newBook)
		require.Equal(t, http.StatusCreated, w.Code)

		resp := decode[struct {
			Message string `json:"message"`
			BookID  uint   `json:"book_id"`
		}](t, w)
		assert.Equal(t, "Book created successfully", resp.Message)
		require.NotZero(t, resp.BookID)
		bookID = resp.BookID
	})

	t.Run("updates partially", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/books/"+idPath(bookID), adminToken, map[string]any{"genre": "Classics"})
		require.Equal(t, http.StatusOK, w.Code)

		stored, err := env.books.GetByID(bookID)
		require.NoError(t, err)
		assert.Equal(t, "Classics", stored.Genre)
		assert.Equal(t, "Dune", stored.Title)
		assert.Equal(t, 600, stored.TotalPages)
	})

	t.Run("update of a missing book is 404", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/books/999", adminToken, map[string]any{"genre": "Classics"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("deletes and audits", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/books/"+idPath(bookID), adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodDelete, "/api/books/"+idPath(bookID), adminToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		env.audit.Wait()
		events, total, err := env.audit.ListEvents(auditQuery(entities.AuditEventBook))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "book_delete", events[0].Action)
	})
}
