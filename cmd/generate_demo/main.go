// Command generate_demo creates a demo database with public domain books,
// a handful of readers and their moderated reviews.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/storyarc/storyarc/internal/auth"
	"github.com/storyarc/storyarc/internal/config"
	"github.com/storyarc/storyarc/internal/database"
	"github.com/storyarc/storyarc/internal/database/books"
	"github.com/storyarc/storyarc/internal/database/genres"
	"github.com/storyarc/storyarc/internal/database/reviews"
	"github.com/storyarc/storyarc/internal/database/shelves"
	"github.com/storyarc/storyarc/internal/database/tutorials"
	"github.com/storyarc/storyarc/internal/database/users"
	"github.com/storyarc/storyarc/internal/entities"
	"github.com/storyarc/storyarc/internal/seed"
	"github.com/storyarc/storyarc/internal/services"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	demoPassword            = "Demo!pass1"
)

type demoReader struct {
	Name    string
	Email   string
	Reviews []demoReview
	Shelf   []demoShelfItem
}

type demoReview struct {
	Title   string
	Rating  int
	Comment string
	Pending bool
}

type demoShelfItem struct {
	Title    string
	Status   entities.ShelfStatus
	Progress int
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	bookRepo := books.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)
	tutorialRepo := tutorials.NewRepository(db.DB)

	loader := seed.NewLoader(genres.NewRepository(db.DB), bookRepo, tutorialRepo, services.NewTutorialService(tutorialRepo))
	result, err := loader.Load(demoCatalog())
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Catalog: %s", result)

	cfg := config.NewConfig()
	tokens, err := auth.NewTokenIssuer("demo", cfg.Auth.TokenExpiry)
	if err != nil {
		log.Fatalf("Failed to create token issuer: %v", err)
	}
	authService := auth.NewService(userRepo, tokens, cfg.Auth)

	if _, _, err := authService.EnsureAdmin("Demo Admin", "admin@demo.local", demoPassword); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	ratings := services.NewRatingService(bookRepo, reviewRepo)
	reviewService := services.NewReviewService(reviewRepo, bookRepo, ratings)
	shelfService := services.NewShelfService(shelves.NewRepository(db.DB), bookRepo, userRepo, reviewRepo)

	for _, r := range demoReaders() {
		user, err := authService.Register(r.Name, r.Email, demoPassword)
		if err != nil {
			log.Printf("Failed to register %s: %v", r.Email, err)
			continue
		}

		for _, rv := range r.Reviews {
			book := findBook(bookRepo, rv.Title)
			if book == nil {
				continue
			}
			review, err := reviewService.Submit(
				services.Reviewer{ID: user.ID, Email: user.Email, Name: user.Name},
				services.ReviewSubmission{BookID: book.ID, Rating: rv.Rating, Comment: rv.Comment},
			)
			if err != nil {
				log.Printf("Failed to submit review of %s: %v", rv.Title, err)
				continue
			}
			if rv.Pending {
				continue
			}
			if _, err := reviewService.Approve(review.ID); err != nil {
				log.Printf("Failed to approve review %d: %v", review.ID, err)
			}
		}

		for _, s := range r.Shelf {
			book := findBook(bookRepo, s.Title)
			if book == nil {
				continue
			}
			if _, _, err := shelfService.Add(user.ID, book.ID, s.Status); err != nil {
				log.Printf("Failed to shelve %s: %v", s.Title, err)
				continue
			}
			if s.Progress > 0 {
				progress := s.Progress
				if _, err := shelfService.UpdateProgress(user.ID, book.ID, services.ProgressUpdate{Progress: &progress}); err != nil {
					log.Printf("Failed to update progress on %s: %v", s.Title, err)
				}
			}
		}
		log.Printf("Saved reader: %s (%d reviews, %d shelved)", r.Email, len(r.Reviews), len(r.Shelf))
	}

	log.Printf("Demo database generated successfully! All accounts use the password %q", demoPassword)
}

func findBook(repo *books.Repository, title string) *entities.Book {
	for _, b := range demoCatalog().Books {
		if b.Title != title {
			continue
		}
		book, err := repo.FindByTitleAndAuthor(b.Title, b.Author)
		if err != nil {
			log.Printf("Book %s not found: %v", title, err)
			return nil
		}
		return book
	}
	return nil
}

func demoCatalog() *seed.Catalog {
	return &seed.Catalog{
		Genres: []string{"Philosophy", "Classic", "Science Fiction", "Adventure"},
		Books: []seed.BookEntry{
			{Title: "Meditations", Author: "Marcus Aurelius", Genre: "Philosophy", TotalPages: 254, PublishedYear: 180,
				Description: "Private notes of a Roman emperor on duty, mortality and self-command."},
			{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Classic", TotalPages: 432, PublishedYear: 1813,
				Description: "The Bennet sisters navigate manners, money and marriage in Regency England."},
			{Title: "Frankenstein", Author: "Mary Shelley", Genre: "Classic", TotalPages: 280, PublishedYear: 1818},
			{Title: "The Time Machine", Author: "H.G. Wells", Genre: "Science Fiction", TotalPages: 118, PublishedYear: 1895},
			{Title: "The War of the Worlds", Author: "H.G. Wells", Genre: "Science Fiction", TotalPages: 192, PublishedYear: 1898},
			{Title: "Treasure Island", Author: "Robert Louis Stevenson", Genre: "Adventure", TotalPages: 292, PublishedYear: 1883},
			{Title: "Moby-Dick", Author: "Herman Melville", Genre: "Adventure", TotalPages: 635, PublishedYear: 1851},
		},
		Tutorials: []seed.TutorialEntry{
			{Title: "Building a reading habit", URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", Category: "Basics"},
			{Title: "Writing better reviews", URL: "https://youtu.be/9bZkp7q19f0", Category: "Reviews"},
		},
	}
}

func demoReaders() []demoReader {
	return []demoReader{
		{
			Name:  "Ada Reader",
			Email: "ada@demo.local",
			Reviews: []demoReview{
				{Title: "Meditations", Rating: 5, Comment: "Short chapters, endless rereads."},
				{Title: "The Time Machine", Rating: 4, Comment: "Dense ideas in a slim book."},
			},
			Shelf: []demoShelfItem{
				{Title: "Meditations", Status: entities.ShelfStatusRead},
				{Title: "Moby-Dick", Status: entities.ShelfStatusCurrentlyReading, Progress: 210},
				{Title: "Frankenstein", Status: entities.ShelfStatusWantToRead},
			},
		},
		{
			Name:  "Grace Pages",
			Email: "grace@demo.local",
			Reviews: []demoReview{
				{Title: "Meditations", Rating: 4, Comment: "Best read a few pages at a time."},
				{Title: "Pride and Prejudice", Rating: 5, Comment: "Funnier than I expected."},
				{Title: "Treasure Island", Rating: 3, Comment: "Fun, but the pacing drags midway.", Pending: true},
			},
			Shelf: []demoShelfItem{
				{Title: "Pride and Prejudice", Status: entities.ShelfStatusRead},
				{Title: "The War of the Worlds", Status: entities.ShelfStatusCurrentlyReading, Progress: 40},
			},
		},
	}
}
