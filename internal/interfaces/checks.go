package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/storyarc/storyarc/internal/audit"
	"github.com/storyarc/storyarc/internal/auth"
	"github.com/storyarc/storyarc/internal/database"
	"github.com/storyarc/storyarc/internal/database/books"
	"github.com/storyarc/storyarc/internal/database/genres"
	"github.com/storyarc/storyarc/internal/database/reviews"
	"github.com/storyarc/storyarc/internal/database/shelves"
	"github.com/storyarc/storyarc/internal/database/tutorials"
	"github.com/storyarc/storyarc/internal/database/users"
	"github.com/storyarc/storyarc/internal/http"
	"github.com/storyarc/storyarc/internal/scheduler"
	"github.com/storyarc/storyarc/internal/seed"
	"github.com/storyarc/storyarc/internal/services"
	"github.com/storyarc/storyarc/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.BookStore = (*books.Repository)(nil)
var _ http.BookCounter = (*books.Repository)(nil)
var _ http.GenreStore = (*genres.Repository)(nil)
var _ http.ReviewReader = (*reviews.Repository)(nil)
var _ http.ReviewCounter = (*reviews.Repository)(nil)
var _ http.TutorialReader = (*tutorials.Repository)(nil)
var _ http.UserStore = (*users.Repository)(nil)
var _ http.RoleCounter = (*users.Repository)(nil)
var _ http.UserGetter = (*users.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)

var _ auth.UserRepository = (*users.Repository)(nil)

// =============================================================================
// Domain Services
// =============================================================================

var _ services.BookReader = (*books.Repository)(nil)
var _ services.RatingWriter = (*books.Repository)(nil)
var _ services.ShelfBooks = (*books.Repository)(nil)
var _ services.ReviewStore = (*reviews.Repository)(nil)
var _ services.UserRatings = (*reviews.Repository)(nil)
var _ services.ShelfStore = (*shelves.Repository)(nil)
var _ services.ReaderAccounts = (*users.Repository)(nil)
var _ services.TutorialStore = (*tutorials.Repository)(nil)

var _ http.Authenticator = (*auth.Service)(nil)
var _ http.LoginLimiter = (*auth.RateLimiter)(nil)

// =============================================================================
// Audit Log
// =============================================================================

var _ http.Auditor = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ tasks.RatingRecomputer = (*services.RatingService)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.MaintenanceRecorder = (*audit.Service)(nil)

// =============================================================================
// Catalog Seeding
// =============================================================================

var _ seed.GenreStore = (*genres.Repository)(nil)
var _ seed.BookStore = (*books.Repository)(nil)
var _ seed.TutorialStore = (*tutorials.Repository)(nil)
var _ seed.TutorialCreator = (*services.TutorialService)(nil)
