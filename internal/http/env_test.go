package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/require"

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
	"github.com/storyarc/storyarc/internal/entities"
	"github.com/storyarc/storyarc/internal/services"
)

const testPassword = "Str0ng!Pass"

// testEnv is the full API over a throwaway SQLite file.
type testEnv struct {
	db        *database.Database
	router    *gin.Engine
	tokens    *auth.TokenIssuer
	limiter   *auth.RateLimiter
	audit     *audit.Service
	queue     *recordingQueue
	books     *books.Repository
	genres    *genres.Repository
	reviews   *reviews.Repository
	shelves   *shelves.Repository
	tutorials *tutorials.Repository
	users     *users.Repository
}

func newTestEnv(t *testing.T, opts ...func(*RouterConfig)) *testEnv {
	t.Helper()

	db, err := database.NewQuietDatabase(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)

	tokens, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	env := &testEnv{
		db:        db,
		tokens:    tokens,
		queue:     &recordingQueue{statuses: map[string]backlite.TaskStatus{}},
		books:     books.NewRepository(db.DB),
		genres:    genres.NewRepository(db.DB),
		reviews:   reviews.NewRepository(db.DB),
		shelves:   shelves.NewRepository(db.DB),
		tutorials: tutorials.NewRepository(db.DB),
		users:     users.NewRepository(db.DB),
	}
	env.audit = audit.NewService(auditdb.NewRepository(db.DB))
	env.limiter = auth.NewRateLimiter(auth.RateLimitConfig{MaxAttempts: 3, WindowDuration: time.Minute, LockoutDuration: time.Minute})

	authService := auth.NewService(env.users, tokens, config.Auth{BcryptCost: 4, SocialLoginEnabled: true})
	ratings := services.NewRatingService(env.books, env.reviews)

	cfg := RouterConfig{
		Books:           env.books,
		Genres:          env.genres,
		Reviews:         env.reviews,
		Tutorials:       env.tutorials,
		Users:           env.users,
		BookCounter:     env.books,
		ReviewCounter:   env.reviews,
		AuthService:     authService,
		ReviewService:   services.NewReviewService(env.reviews, env.books, ratings),
		ShelfService:    services.NewShelfService(env.shelves, env.books, env.users, env.reviews),
		TutorialService: services.NewTutorialService(env.tutorials),
		RateLimiter:     env.limiter,
		Auditor:         env.audit,
		AuditEvents:     auditdb.NewRepository(db.DB),
		TaskQueue:       env.queue,
		Database:        db,
		Version:         "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	env.router = NewRouter(cfg)

	t.Cleanup(func() {
		env.limiter.Stop()
		env.audit.Wait()
		db.Close()
	})
	return env
}

// createUser stores an account directly and returns it with a bearer token.
func (e *testEnv) createUser(t *testing.T, name, email string, role entities.UserRole) (*entities.User, string) {
	t.Helper()
	hash, err := auth.HashPassword(testPassword, 4)
	require.NoError(t, err)
	user := &entities.User{Name: name, Email: email, PasswordHash: hash, Role: role, Provider: entities.AuthProviderLocal}
	require.NoError(t, e.users.CreateUser(user))
	token, err := e.tokens.Issue(user)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) admin(t *testing.T) (*entities.User, string) {
	return e.createUser(t, "Ada Admin", "admin@example.com", entities.UserRoleAdmin)
}

func (e *testEnv) reader(t *testing.T) (*entities.User, string) {
	return e.createUser(t, "Rita Reader", "reader@example.com", entities.UserRoleUser)
}

func (e *testEnv) book(t *testing.T, title, author, genre string, pages int) *entities.Book {
	t.Helper()
	b := &entities.Book{Title: title, Author: author, Genre: genre, TotalPages: pages}
	require.NoError(t, e.books.Create(b))
	return b
}

// do performs a request against the router. body is JSON-encoded when non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// recordingQueue stands in for the backlite client.
type recordingQueue struct {
	enqueued []backlite.Task
	statuses map[string]backlite.TaskStatus
	err      error
}

func (q *recordingQueue) Enqueue(_ context.Context, tasks ...backlite.Task) ([]string, error) {
	if q.err != nil {
		return nil, q.err
	}
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		q.enqueued = append(q.enqueued, task)
		ids[i] = fmt.Sprintf("task-%d", len(q.enqueued))
		q.statuses[ids[i]] = backlite.TaskStatusPending
	}
	return ids, nil
}

func (q *recordingQueue) Status(_ context.Context, taskID string) (backlite.TaskStatus, error) {
	if s, ok := q.statuses[taskID]; ok {
		return s, nil
	}
	return backlite.TaskStatusNotFound, nil
}

var _ TaskQueue = (*recordingQueue)(nil)

func idPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func auditQuery(eventType entities.AuditEventType) auditdb.Query {
	return auditdb.Query{EventType: eventType, Limit: 50}
}

func bookFilter(genre string) books.Filter {
	f := books.Filter{Genres: []string{genre}}
	f.Normalize()
	return f
}
