// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── books/           # Catalog queries, CRUD, rating aggregates
//	├── genres/          # Genre CRUD with cascading renames/deletes
//	├── reviews/         # Review moderation and approved-rating stats
//	├── tutorials/       # Tutorial CRUD
//	├── shelves/         # Per-user shelf items and reading stats
//	├── users/           # User accounts and roles
//	└── audit/           # Audit event persistence
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type built on the shared *gorm.DB:
//
//	db, err := database.NewDatabase("./storyarc.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	reviewsRepo := reviews.NewRepository(db.DB)
//
//	page, err := booksRepo.List(books.Filter{Search: "dune", Page: 1, Limit: 10})
//
// Lookups of a single missing row return gorm.ErrRecordNotFound unchanged so
// callers can branch on it with errors.Is.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Register the entity in Models so it is migrated
//  5. Add a compile-time check in internal/interfaces
package database
