package http

import (
	"github.com/storyarc/storyarc/internal/auth"
	"github.com/storyarc/storyarc/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Stores
	Books     BookStore
	Genres    GenreStore
	Reviews   ReviewReader
	Tutorials TutorialReader
	Users     UserStore

	// Dashboard aggregates
	BookCounter   BookCounter
	ReviewCounter ReviewCounter

	// Services
	AuthService     *auth.Service
	ReviewService   *services.ReviewService
	ShelfService    *services.ShelfService
	TutorialService *services.TutorialService

	// Login throttling (optional)
	RateLimiter LoginLimiter

	// Audit trail (optional)
	Auditor     Auditor
	AuditEvents AuditReader

	// Task queue client (optional)
	TaskQueue TaskQueue

	// Health
	Database Pinger
	Version  string

	// CORS origins; "*" allows any origin.
	AllowedOrigins []string
	// Emit HSTS when the API is served over TLS.
	SecureTransport bool
	// Reject writes other than login; see the demo package.
	DemoMode bool
}
