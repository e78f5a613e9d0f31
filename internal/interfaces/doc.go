// Package interfaces documents the core abstractions used throughout the application.
//
// Consumers declare the narrow interface they need next to the code that
// uses it; the database repositories and services satisfy them implicitly.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore, GenreStore, ReviewReader, TutorialReader, UserStore:
//     controller-side store access (internal/http/stores.go)
//   - BookCounter, RoleCounter, ReviewCounter: dashboard aggregates
//     (internal/http/stores.go)
//   - ReviewStore, ShelfStore, ShelfBooks, ReaderAccounts, UserRatings,
//     TutorialStore: service-side persistence (internal/services/interfaces.go)
//   - UserRepository: account storage for auth.Service (internal/auth/service.go)
//
// ## Background Work
//
//   - TaskQueue: enqueue and inspect backlite tasks (internal/http/maintenance.go)
//   - Enqueuer: what the cron scheduler hands tasks to (internal/scheduler)
//   - RatingRecomputer, AuditEventCleaner, MaintenanceRecorder: task
//     dependencies (internal/tasks)
//
// ## Catalog Seeding
//
//   - GenreStore, BookStore, TutorialStore, TutorialCreator (internal/seed)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., reading clubs):
//
//  1. Create sub-package: internal/database/clubs/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Declare the interface the controller needs in internal/http/stores.go
//
//  4. Add compile-time check:
//
//     var _ http.ClubStore = (*clubs.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
