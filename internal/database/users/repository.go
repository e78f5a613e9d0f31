// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByEmail("reader@example.com")
package users

import (
	"strings"

	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/entities"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a user. Emails are stored lower-cased.
func (r *Repository) CreateUser(user *entities.User) error {
	user.Email = normalizeEmail(user.Email)
	if user.Role == "" {
		user.Role = entities.UserRoleUser
	}
	if user.Provider == "" {
		user.Provider = entities.AuthProviderLocal
	}
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email (case-insensitive).
func (r *Repository) GetUserByEmail(email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns one page of users, newest first.
func (r *Repository) ListUsers(page, limit int) ([]entities.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	var total int64
	if err := r.db.Model(&entities.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	users := []entities.User{}
	err := r.db.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error
	return users, total, err
}

// CountByRole returns how many users hold the given role.
func (r *Repository) CountByRole(role entities.UserRole) (int64, error) {
	var n int64
	err := r.db.Model(&entities.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

// UpdateRole changes a user's role and returns the updated user.
func (r *Repository) UpdateRole(id uint, role entities.UserRole) (*entities.User, error) {
	user, err := r.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(user).Update("role", role).Error; err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// SetReadingGoal stores a user's yearly reading goal.
func (r *Repository) SetReadingGoal(id uint, goal, year int) (*entities.User, error) {
	user, err := r.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	err = r.db.Model(user).Updates(map[string]any{
		"reading_goal": goal,
		"goal_year":    year,
	}).Error
	if err != nil {
		return nil, err
	}
	user.ReadingGoal = goal
	user.GoalYear = year
	return user, nil
}

// UpdateProfile refreshes the display name and image of a user.
func (r *Repository) UpdateProfile(id uint, name, image string) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"name":  name,
		"image": image,
	}).Error
}

// UpdatePassword replaces a user's password hash.
func (r *Repository) UpdatePassword(id uint, hash string) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
