package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/database"
	"github.com/storyarc/storyarc/internal/database/books"
	"github.com/storyarc/storyarc/internal/database/reviews"
	"github.com/storyarc/storyarc/internal/database/shelves"
	"github.com/storyarc/storyarc/internal/database/tutorials"
	"github.com/storyarc/storyarc/internal/database/users"
	"github.com/storyarc/storyarc/internal/entities"
)

type fixture struct {
	db        *gorm.DB
	books     *books.Repository
	reviews   *reviews.Repository
	shelves   *shelves.Repository
	users     *users.Repository
	tutorials *tutorials.Repository
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewQuietDatabase(filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &fixture{
		db:        db.DB,
		books:     books.NewRepository(db.DB),
		reviews:   reviews.NewRepository(db.DB),
		shelves:   shelves.NewRepository(db.DB),
		users:     users.NewRepository(db.DB),
		tutorials: tutorials.NewRepository(db.DB),
	}
}

func (f *fixture) book(t *testing.T, title, genre string, pages int) *entities.Book {
	t.Helper()
	b := &entities.Book{Title: title, Author: "Author of " + title, Genre: genre, TotalPages: pages}
	require.NoError(t, f.books.Create(b))
	return b
}

func (f *fixture) user(t *testing.T, email string) *entities.User {
	t.Helper()
	u := &entities.User{Name: "Reader", Email: email}
	require.NoError(t, f.users.CreateUser(u))
	return u
}
