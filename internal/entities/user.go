package entities

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"size:100" json:"name"`
	Email        string       `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string       `gorm:"size:255" json:"-"`
	Image        string       `gorm:"size:2048" json:"image,omitempty"`
	Role         UserRole     `gorm:"index;size:20;default:'user'" json:"role"`
	Provider     AuthProvider `gorm:"size:20;default:'local'" json:"provider"`
	ReadingGoal  int          `json:"reading_goal,omitempty"`
	GoalYear     int          `json:"goal_year,omitempty"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
