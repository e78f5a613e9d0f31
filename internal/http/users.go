package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/audit"
	"github.com/storyarc/storyarc/internal/auth"
	"github.com/storyarc/storyarc/internal/database/users"
	"github.com/storyarc/storyarc/internal/entities"
)

// Authenticator is the account side of auth.Service used by UsersController.
type Authenticator interface {
	Register(name, email, password string) (*entities.User, error)
	Login(email, password string) (*entities.User, string, error)
	SocialLogin(email, name, image string) (*entities.User, string, error)
}

// LoginLimiter throttles repeated failed logins per client and email.
type LoginLimiter interface {
	Allow(ip, email string) (bool, time.Duration)
	RecordFailure(ip, email string) (bool, time.Duration)
	RecordSuccess(ip, email string)
}

// UsersController handles registration, login and account administration.
type UsersController struct {
	auth    Authenticator
	store   UserStore
	limiter LoginLimiter
	auditor Auditor
}

func NewUsersController(authService Authenticator, store UserStore, limiter LoginLimiter, auditor Auditor) *UsersController {
	return &UsersController{
		auth:    authService,
		store:   store,
		limiter: limiter,
		auditor: auditorOrNoop(auditor),
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type socialLoginRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type updateRoleRequest struct {
	Role entities.UserRole `json:"role" binding:"required"`
}

// loginResponse flattens the user next to the issued token.
type loginResponse struct {
	*entities.User
	Token string `json:"token"`
}

// Register handles POST /api/users
func (uc *UsersController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := uc.auth.Register(req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrUserExists):
		respondError(c, http.StatusConflict, err.Error())
		return
	case isRegistrationInputError(err):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "register user")
		return
	}

	respondCreated(c, user)
}

// Login handles POST /api/users/login
func (uc *UsersController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	clientIP := c.ClientIP()

	if uc.limiter != nil {
		if allowed, retryAfter := uc.limiter.Allow(clientIP, email); !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			respondError(c, http.StatusTooManyRequests, "too many login attempts, please try again later")
			return
		}
	}

	user, token, err := uc.auth.Login(email, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			respondInternalError(c, err, "login")
			return
		}
		if uc.limiter != nil {
			uc.limiter.RecordFailure(clientIP, email)
		}
		uc.auditor.LogAuth(auditActor(c), "login_failed", email, false)
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if uc.limiter != nil {
		uc.limiter.RecordSuccess(clientIP, email)
	}
	actor := auditActor(c)
	actor.UserID = user.ID
	uc.auditor.LogAuth(actor, "login_success", email, true)

	c.JSON(http.StatusOK, loginResponse{User: user, Token: token})
}

// GoogleLogin handles POST /api/users/google
func (uc *UsersController) GoogleLogin(c *gin.Context) {
	var req socialLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, token, err := uc.auth.SocialLogin(req.Email, req.Name, req.Image)
	switch {
	case errors.Is(err, auth.ErrSocialLoginDisabled):
		respondError(c, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, auth.ErrEmailRequired), errors.Is(err, auth.ErrEmailInvalid):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "social login")
		return
	}

	actor := auditActor(c)
	actor.UserID = user.ID
	uc.auditor.LogAuth(actor, "login_google", user.Email, true)

	c.JSON(http.StatusOK, loginResponse{User: user, Token: token})
}

// ListUsers handles GET /api/users
func (uc *UsersController) ListUsers(c *gin.Context) {
	page, limit, ok := parsePagination(c, users.DefaultLimit, users.MaxLimit)
	if !ok {
		return
	}

	list, total, err := uc.store.ListUsers(page, limit)
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	admins, err := uc.store.CountByRole(entities.UserRoleAdmin)
	if err != nil {
		respondInternalError(c, err, "count admins")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":        list,
		"total_users":  total,
		"total_pages":  totalPages(total, limit),
		"current_page": page,
		"stats": gin.H{
			"active_users": total, // every account, admins included
			"admin_roles":  admins,
		},
	})
}

// GetUser handles GET /api/users/:id
func (uc *UsersController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := uc.store.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateRole handles PATCH /api/users/:id/role
func (uc *UsersController) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	if !req.Role.Valid() {
		respondBadRequest(c, "role must be admin or user")
		return
	}

	user, err := uc.store.UpdateRole(id, req.Role)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "user")
		return
	}
	uc.auditor.LogAction(auditActor(c), entities.AuditEventUser, "role_change", "user", id,
		"Changed role of user "+audit.FormatID(id)+" to "+string(req.Role),
		map[string]any{"role": req.Role}, err)
	if err != nil {
		respondInternalError(c, err, "update role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated successfully",
		"user":    user,
	})
}

func isRegistrationInputError(err error) bool {
	for _, target := range []error{
		auth.ErrNameInvalid,
		auth.ErrEmailRequired,
		auth.ErrEmailInvalid,
		auth.ErrPasswordRequired,
		auth.ErrPasswordTooShort,
		auth.ErrPasswordTooLong,
		auth.ErrPasswordWeak,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
