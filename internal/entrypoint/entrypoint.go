package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storyarc/storyarc/internal/audit"
	"github.com/storyarc/storyarc/internal/auth"
	"github.com/storyarc/storyarc/internal/config"
	"github.com/storyarc/storyarc/internal/database"
	auditdb "github.com/storyarc/storyarc/internal/database/audit"
	"github.com/storyarc/storyarc/internal/database/books"
	"github.com/storyarc/storyarc/internal/database/genres"
	"github.com/storyarc/storyarc/internal/database/reviews"
	"github.com/storyarc/storyarc/internal/database/shelves"
	"github.com/storyarc/storyarc/internal/database/tutorials"
	"github.com/storyarc/storyarc/internal/database/users"
	http_controllers "github.com/storyarc/storyarc/internal/http"
	"github.com/storyarc/storyarc/internal/scheduler"
	"github.com/storyarc/storyarc/internal/services"
	"github.com/storyarc/storyarc/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// SIGKILL cannot be caught, so only INT and TERM are handled.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Background work is stopped after the last request has drained.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting StoryArc v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	genreRepo := genres.NewRepository(db.DB)
	reviewRepo := reviews.NewRepository(db.DB)
	shelfRepo := shelves.NewRepository(db.DB)
	tutorialRepo := tutorials.NewRepository(db.DB)
	userRepo := users.NewRepository(db.DB)
	auditRepo := auditdb.NewRepository(db.DB)

	tokens, err := auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenExpiry)
	if err != nil {
		log.Fatalf("Failed to initialize token issuer: %v", err)
	}
	authService := auth.NewService(userRepo, tokens, cfg.Auth)
	rateLimiter := auth.NewRateLimiter(auth.RateLimitConfigFrom(cfg.Auth))
	auditService := audit.NewService(auditRepo)

	ratings := services.NewRatingService(bookRepo, reviewRepo)
	reviewService := services.NewReviewService(reviewRepo, bookRepo, ratings)
	shelfService := services.NewShelfService(shelfRepo, bookRepo, userRepo, reviewRepo)
	tutorialService := services.NewTutorialService(tutorialRepo)

	routerCfg := http_controllers.RouterConfig{
		Books:           bookRepo,
		Genres:          genreRepo,
		Reviews:         reviewRepo,
		Tutorials:       tutorialRepo,
		Users:           userRepo,
		BookCounter:     bookRepo,
		ReviewCounter:   reviewRepo,
		AuthService:     authService,
		ReviewService:   reviewService,
		ShelfService:    shelfService,
		TutorialService: tutorialService,
		RateLimiter:     rateLimiter,
		Auditor:         auditService,
		AuditEvents:     auditService,
		Database:        db,
		Version:         version,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		SecureTransport: cfg.HTTP.HSTS,
		DemoMode:        cfg.Demo.Enabled,
	}

	// Task queue and the maintenance schedule that feeds it
	var taskClient *tasks.Client
	var maintenance *scheduler.MaintenanceScheduler
	taskCtx, taskCtxCancel := context.WithCancel(context.Background())
	defer taskCtxCancel()

	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewRecomputeBookRatingsQueue(ratings, auditService),
			tasks.NewCleanupAuditEventsQueue(auditService, auditService),
		)
		taskClient.Start(taskCtx)
		routerCfg.TaskQueue = taskClient

		if cfg.Maintenance.Enabled {
			maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule, cfg.Audit.RetentionDays)
			if err := maintenance.Start(taskCtx); err != nil {
				log.Printf("WARNING: maintenance scheduler disabled: %v", err)
				maintenance = nil
			}
		}
	} else {
		log.Printf("Task queue disabled; maintenance endpoints will answer 503")
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		taskCtxCancel()
		rateLimiter.Stop()
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}
