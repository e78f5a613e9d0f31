package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyarc/storyarc/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupMiddleware(t *testing.T) (*Middleware, *TokenIssuer) {
	t.Helper()
	tokens, err := NewTokenIssuer("middleware-test-secret", time.Hour)
	require.NoError(t, err)
	return NewMiddleware(tokens), tokens
}

func bearerFor(t *testing.T, tokens *TokenIssuer, id uint, role entities.UserRole) string {
	t.Helper()
	token, err := tokens.Issue(&entities.User{ID: id, Email: "u@example.com", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestMiddleware_VerifyToken(t *testing.T) {
	m, tokens := setupMiddleware(t)

	router := gin.New()
	router.GET("/me", m.VerifyToken(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    GetUserID(c),
			"email": GetUserEmail(c),
			"role":  GetUserRole(c),
		})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid token", bearerFor(t, tokens, 7, entities.UserRoleUser), http.StatusOK},
		{"lowercase scheme", "bearer " + bearerFor(t, tokens, 7, entities.UserRoleUser)[len("Bearer "):], http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"email":"u@example.com","role":"user"}`, rr.Body.String())
			} else {
				assert.Contains(t, rr.Body.String(), "unauthorized access")
			}
		})
	}
}

func TestMiddleware_RequireRole(t *testing.T) {
	m, tokens := setupMiddleware(t)

	router := gin.New()
	router.DELETE("/books/1", m.VerifyToken(), m.RequireRole(entities.UserRoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		role       entities.UserRole
		wantStatus int
	}{
		{"admin allowed", entities.UserRoleAdmin, http.StatusNoContent},
		{"user forbidden", entities.UserRoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/books/1", nil)
			req.Header.Set("Authorization", bearerFor(t, tokens, 1, tt.role))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestMiddleware_RequireSelfOrAdmin(t *testing.T) {
	m, tokens := setupMiddleware(t)

	router := gin.New()
	router.GET("/users/:id/shelf", m.VerifyToken(), m.RequireSelfOrAdmin("id"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		path       string
		callerID   uint
		role       entities.UserRole
		wantStatus int
	}{
		{"own shelf", "/users/5/shelf", 5, entities.UserRoleUser, http.StatusOK},
		{"someone else's shelf", "/users/6/shelf", 5, entities.UserRoleUser, http.StatusForbidden},
		{"malformed id", "/users/abc/shelf", 5, entities.UserRoleUser, http.StatusForbidden},
		{"admin on any shelf", "/users/6/shelf", 1, entities.UserRoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", bearerFor(t, tokens, tt.callerID, tt.role))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestGetters_WithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Zero(t, GetUserID(c))
	assert.Empty(t, GetUserEmail(c))
	assert.Empty(t, GetUserRole(c))
}
