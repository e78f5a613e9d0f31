package seed

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/entities"
)

// GenreStore finds or creates genres by name.
type GenreStore interface {
	GetOrCreate(name string) (*entities.Genre, bool, error)
}

// BookStore matches catalog books against existing ones.
type BookStore interface {
	FindByTitleAndAuthor(title, author string) (*entities.Book, error)
	Create(book *entities.Book) error
}

// TutorialStore matches tutorials by URL.
type TutorialStore interface {
	GetByURL(url string) (*entities.Tutorial, error)
}

// TutorialCreator validates and stores a new tutorial.
type TutorialCreator interface {
	Create(title, url, category string) (*entities.Tutorial, error)
}

// Result counts what a Load call created and what already existed.
type Result struct {
	GenresCreated     int
	GenresExisting    int
	BooksCreated      int
	BooksExisting     int
	TutorialsCreated  int
	TutorialsExisting int
}

func (r Result) String() string {
	return fmt.Sprintf("genres: %d created, %d existing; books: %d created, %d existing; tutorials: %d created, %d existing",
		r.GenresCreated, r.GenresExisting, r.BooksCreated, r.BooksExisting, r.TutorialsCreated, r.TutorialsExisting)
}

type Loader struct {
	genres    GenreStore
	books     BookStore
	tutorials TutorialStore
	creator   TutorialCreator
}

func NewLoader(genres GenreStore, books BookStore, tutorials TutorialStore, creator TutorialCreator) *Loader {
	return &Loader{genres: genres, books: books, tutorials: tutorials, creator: creator}
}

// Load writes the catalog. It stops at the first invalid entry; everything
// stored before that point stays, and re-running after a fix resumes.
func (l *Loader) Load(c *Catalog) (Result, error) {
	var res Result
	seen := make(map[string]string)

	for _, name := range c.Genres {
		if _, err := l.ensureGenre(name, seen, &res); err != nil {
			return res, err
		}
	}

	for i, entry := range c.Books {
		title, author := strings.TrimSpace(entry.Title), strings.TrimSpace(entry.Author)
		if title == "" || author == "" {
			return res, fmt.Errorf("book #%d: title and author are required", i+1)
		}

		genre, err := l.ensureGenre(entry.Genre, seen, &res)
		if err != nil {
			return res, err
		}

		_, err = l.books.FindByTitleAndAuthor(title, author)
		if err == nil {
			res.BooksExisting++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fmt.Errorf("book %q: %w", title, err)
		}

		book := &entities.Book{
			Title:         title,
			Author:        author,
			Genre:         genre,
			Description:   entry.Description,
			Cover:         entry.Cover,
			TotalPages:    entry.TotalPages,
			PublishedYear: entry.PublishedYear,
		}
		if err := l.books.Create(book); err != nil {
			return res, fmt.Errorf("book %q: %w", title, err)
		}
		res.BooksCreated++
	}

	for _, entry := range c.Tutorials {
		url := strings.TrimSpace(entry.URL)
		_, err := l.tutorials.GetByURL(url)
		if err == nil {
			res.TutorialsExisting++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fmt.Errorf("tutorial %q: %w", entry.Title, err)
		}

		if _, err := l.creator.Create(entry.Title, url, entry.Category); err != nil {
			return res, fmt.Errorf("tutorial %q: %w", entry.Title, err)
		}
		res.TutorialsCreated++
	}

	log.Printf("Catalog loaded (%s)", res)
	return res, nil
}

// ensureGenre returns the stored spelling of name, creating the genre on
// first use. Blank and Uncategorized names map to "".
func (l *Loader) ensureGenre(name string, seen map[string]string, res *Result) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, entities.UncategorizedGenre) {
		return "", nil
	}
	key := strings.ToLower(name)
	if stored, ok := seen[key]; ok {
		return stored, nil
	}

	genre, created, err := l.genres.GetOrCreate(name)
	if err != nil {
		return "", fmt.Errorf("genre %q: %w", name, err)
	}
	if created {
		res.GenresCreated++
	} else {
		res.GenresExisting++
	}
	seen[key] = genre.Name
	return genre.Name, nil
}
