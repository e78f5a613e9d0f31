package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyarc/storyarc/internal/entities"
)

type loginResult struct {
	ID    uint              `json:"id"`
	Email string            `json:"email"`
	Role  entities.UserRole `json:"role"`
	Token string            `json:"token"`
}

func TestUsersController_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("registers without exposing the hash", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
			"name": "Nina", "email": "Nina@Example.com", "password": testPassword,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.NotContains(t, w.Body.String(), "password")

		user := decode[entities.User](t, w)
		assert.Equal(t, "nina@example.com", user.Email)
		assert.Equal(t, entities.UserRoleUser, user.Role)
	})

	t.Run("rejects duplicates and weak input", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
			"name": "Nina", "email": "nina@example.com", "password": testPassword,
		})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = env.do(t, http.MethodPost, "/api/users", "", map[string]string{
			"name": "Nina", "email": "new@example.com", "password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodPost, "/api/users", "", map[string]string{
			"name": "N", "email": "new@example.com", "password": testPassword,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("logs in with a usable token", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
			"email": "nina@example.com", "password": testPassword,
		})
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[loginResult](t, w)
		assert.Equal(t, "nina@example.com", resp.Email)
		require.NotEmpty(t, resp.Token)

		w = env.do(t, http.MethodGet, "/api/users/"+idPath(resp.ID), resp.Token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
			"email": "nina@example.com", "password": "Wr0ng!Pass",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid email or password", decode[ErrorResponse](t, w).Error)

		w = env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
			"email": "ghost@example.com", "password": testPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logins are audited", func(t *testing.T) {
		env.audit.Wait()
		events, total, err := env.audit.ListEvents(auditQuery(entities.AuditEventAuth))
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)

		var failed int
		for _, e := range events {
			if e.Status == entities.AuditStatusFailed {
				failed++
			}
		}
		assert.Equal(t, 2, failed)
	})
}

func TestUsersController_LoginRateLimit(t *testing.T) {
	env := newTestEnv(t)
	env.reader(t)
	bad := map[string]string{"email": "reader@example.com", "password": "Wr0ng!Pass"}

	for i := 0; i < 3; i++ {
		w := env.do(t, http.MethodPost, "/api/users/login", "", bad)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := env.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "reader@example.com", "password": testPassword,
	})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestUsersController_GoogleLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/users/google", "", map[string]string{
		"email": "gina@example.com", "name": "Gina", "image": "https://example.com/g.png",
	})
	require.Equal(t, http.StatusOK, w.Code)
	first := decode[loginResult](t, w)
	assert.NotEmpty(t, first.Token)

	w = env.do(t, http.MethodPost, "/api/users/google", "", map[string]string{"email": "gina@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.ID, decode[loginResult](t, w).ID)

	stored, err := env.users.GetUserByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.AuthProviderGoogle, stored.Provider)

	w = env.do(t, http.MethodPost, "/api/users/google", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsersController_Administration(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.admin(t)
	reader, readerToken := env.reader(t)
	other, _ := env.createUser(t, "Otto Other", "other@example.com", entities.UserRoleUser)

	t.Run("admin lists with stats", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/users?limit=2", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decode[struct {
			Users       []entities.User `json:"users"`
			TotalUsers  int64           `json:"total_users"`
			TotalPages  int             `json:"total_pages"`
			CurrentPage int             `json:"current_page"`
			Stats       struct {
				ActiveUsers int64 `json:"active_users"`
				AdminRoles  int64 `json:"admin_roles"`
			} `json:"stats"`
		}](t, w)
		assert.Len(t, resp.Users, 2)
		assert.Equal(t, int64(3), resp.TotalUsers)
		assert.Equal(t, 2, resp.TotalPages)
		assert.Equal(t, int64(3), resp.Stats.ActiveUsers, "admins count as active accounts")
		assert.Equal(t, int64(1), resp.Stats.AdminRoles)
	})

	t.Run("readers cannot list", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/users", readerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("self or admin may read a profile", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/users/"+idPath(reader.ID), readerToken, nil).Code)
		assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/users/"+idPath(other.ID), adminToken, nil).Code)
		assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/users/"+idPath(other.ID), readerToken, nil).Code)
		assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/users/999", adminToken, nil).Code)
	})

	t.Run("role changes", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/users/"+idPath(other.ID)+"/role", adminToken, map[string]string{"role": "admin"})
		require.Equal(t, http.StatusOK, w.Code)

		stored, err := env.users.GetUserByID(other.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.UserRoleAdmin, stored.Role)

		w = env.do(t, http.MethodPatch, "/api/users/"+idPath(other.ID)+"/role", adminToken, map[string]string{"role": "owner"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodPatch, "/api/users/999/role", adminToken, map[string]string{"role": "user"})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = env.do(t, http.MethodPatch, "/api/users/"+idPath(reader.ID)+"/role", readerToken, map[string]string{"role": "admin"})
		assert.Equal(t, http.StatusForbidden, w.Code)

		env.audit.Wait()
		events, total, err := env.audit.ListEvents(auditQuery(entities.AuditEventUser))
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "role_change", events[0].Action)
	})
}
