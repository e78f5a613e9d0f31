package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storyarc/storyarc/internal/auth"
	"github.com/storyarc/storyarc/internal/demo"
	"github.com/storyarc/storyarc/internal/entities"
)

const (
	// HeaderRequestID carries the per-request correlation ID.
	HeaderRequestID = "X-Request-ID"
	// ContextKeyRequestID is the gin context key holding the request ID.
	ContextKeyRequestID = "request_id"
)

// RequestIDMiddleware echoes the caller's X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestID, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(corsMiddleware(cfg.AllowedOrigins))
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureTransport {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}
	router.Use(demo.NewMiddleware(cfg.DemoMode, "/api/users/login", "/api/users/google").Handler())

	mw := auth.NewMiddleware(cfg.AuthService.Tokens())
	authenticated := mw.VerifyToken()
	adminOnly := mw.RequireRole(entities.UserRoleAdmin)
	readerOnly := mw.RequireRole(entities.UserRoleUser)
	selfOrAdmin := mw.RequireSelfOrAdmin("id")

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books, cfg.Auditor)
	genresController := NewGenresController(cfg.Genres, cfg.Auditor)
	reviewsController := NewReviewsController(cfg.Reviews, cfg.ReviewService, cfg.Users, cfg.Auditor)
	tutorialsController := NewTutorialsController(cfg.Tutorials, cfg.TutorialService, cfg.Auditor)
	usersController := NewUsersController(cfg.AuthService, cfg.Users, cfg.RateLimiter, cfg.Auditor)
	shelfController := NewShelfController(cfg.ShelfService)
	dashboardController := NewDashboardController(cfg.BookCounter, cfg.Users, cfg.ReviewCounter)

	// Health endpoints
	router.GET("/", health.Hello)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	// Books
	books := api.Group("/books")
	books.GET("", booksController.ListBooks)
	books.GET("/genres", booksController.ListGenres)
	books.GET("/:id", booksController.GetBook)
	books.POST("", authenticated, adminOnly, booksController.CreateBook)
	books.PUT("/:id", authenticated, adminOnly, booksController.UpdateBook)
	books.DELETE("/:id", authenticated, adminOnly, booksController.DeleteBook)

	// Genres
	genres := api.Group("/genres")
	genres.GET("", genresController.ListGenres)
	genres.POST("", authenticated, adminOnly, genresController.CreateGenre)
	genres.PUT("/:id", authenticated, adminOnly, genresController.RenameGenre)
	genres.DELETE("/:id", authenticated, adminOnly, genresController.DeleteGenre)

	// Reviews
	reviews := api.Group("/reviews")
	reviews.GET("/admin/all", authenticated, adminOnly, reviewsController.ListAllReviews)
	reviews.GET("/:bookId", reviewsController.ListBookReviews)
	reviews.POST("", authenticated, readerOnly, reviewsController.SubmitReview)
	reviews.PATCH("/:id/approve", authenticated, adminOnly, reviewsController.ApproveReview)
	reviews.DELETE("/:id", authenticated, adminOnly, reviewsController.DeleteReview)

	// Tutorials
	tutorials := api.Group("/tutorials")
	tutorials.GET("", tutorialsController.ListTutorials)
	tutorials.POST("", authenticated, adminOnly, tutorialsController.CreateTutorial)
	tutorials.PUT("/:id", authenticated, adminOnly, tutorialsController.UpdateTutorial)
	tutorials.DELETE("/:id", authenticated, adminOnly, tutorialsController.DeleteTutorial)

	// Users and shelves
	users := api.Group("/users")
	users.POST("", usersController.Register)
	users.POST("/login", usersController.Login)
	users.POST("/google", usersController.GoogleLogin)
	users.GET("", authenticated, adminOnly, usersController.ListUsers)
	users.GET("/:id", authenticated, selfOrAdmin, usersController.GetUser)
	users.PATCH("/:id/role", authenticated, adminOnly, usersController.UpdateRole)

	shelf := users.Group("/:id", authenticated, selfOrAdmin)
	shelf.POST("/shelf", shelfController.AddToShelf)
	shelf.GET("/shelf", shelfController.ListShelf)
	shelf.PATCH("/shelf/:bookId", shelfController.UpdateProgress)
	shelf.GET("/stats", shelfController.GetStats)
	shelf.POST("/goal", shelfController.SetGoal)
	shelf.GET("/recommendations", shelfController.Recommendations)

	// Dashboard
	dashboard := api.Group("/dashboard", authenticated, adminOnly)
	dashboard.GET("/stats", dashboardController.Stats)
	dashboard.GET("/charts", dashboardController.Charts)

	// Administration
	admin := api.Group("/admin", authenticated, adminOnly)
	if cfg.AuditEvents != nil {
		auditController := NewAuditController(cfg.AuditEvents)
		admin.GET("/audit", auditController.GetAuditEvents)
	}
	maintenanceController := NewMaintenanceController(cfg.TaskQueue, cfg.Auditor)
	admin.POST("/maintenance/ratings", maintenanceController.RecomputeRatings)
	admin.GET("/tasks/:id", maintenanceController.GetTaskStatus)

	return router
}
