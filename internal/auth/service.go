package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/storyarc/storyarc/internal/config"
	"github.com/storyarc/storyarc/internal/entities"
)

const MinNameLength = 2

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrNameInvalid         = errors.New("name must be at least 2 characters long")
	ErrEmailRequired       = errors.New("email is required")
	ErrEmailInvalid        = errors.New("please enter a valid email address")
	ErrSocialLoginDisabled = errors.New("social login is disabled")
)

// UserRepository defines the user data access the service needs.
type UserRepository interface {
	CreateUser(user *entities.User) error
	GetUserByID(id uint) (*entities.User, error)
	GetUserByEmail(email string) (*entities.User, error)
	UpdateRole(id uint, role entities.UserRole) (*entities.User, error)
	UpdateProfile(id uint, name, image string) error
	UpdatePassword(id uint, hash string) error
}

// Service handles registration, login and token issuing.
type Service struct {
	users  UserRepository
	tokens *TokenIssuer
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserRepository, tokens *TokenIssuer, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		config: cfg,
	}
}

// Tokens exposes the issuer used to sign this service's tokens.
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// Register creates a local account with role user.
func (s *Service) Register(name, email, password string) (*entities.User, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinNameLength {
		return nil, ErrNameInvalid
	}
	email, err := validateEmail(email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetUserByEmail(email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         entities.UserRoleUser,
		Provider:     entities.AuthProviderLocal,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks credentials and returns the user with a fresh token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(email, password string) (*entities.User, string, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SocialLogin finds the user by email or creates a google-provider account,
// then issues a token. Blank profile fields of an existing account are
// filled from the provider.
func (s *Service) SocialLogin(email, name, image string) (*entities.User, string, error) {
	if !s.config.SocialLoginEnabled {
		return nil, "", ErrSocialLoginDisabled
	}
	email, err := validateEmail(email)
	if err != nil {
		return nil, "", err
	}
	name = strings.TrimSpace(name)

	user, err := s.users.GetUserByEmail(email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &entities.User{
			Name:     name,
			Email:    email,
			Image:    image,
			Role:     entities.UserRoleUser,
			Provider: entities.AuthProviderGoogle,
		}
		if err := s.users.CreateUser(user); err != nil {
			return nil, "", fmt.Errorf("failed to create user: %w", err)
		}
	case err != nil:
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	case (user.Name == "" && name != "") || (user.Image == "" && image != ""):
		if user.Name == "" {
			user.Name = name
		}
		if user.Image == "" {
			user.Image = image
		}
		if err := s.users.UpdateProfile(user.ID, user.Name, user.Image); err != nil {
			return nil, "", fmt.Errorf("failed to update profile: %w", err)
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// EnsureAdmin creates an admin account, or promotes the existing account
// with that email and resets its password.
func (s *Service) EnsureAdmin(name, email, password string) (*entities.User, bool, error) {
	email, err := validateEmail(email)
	if err != nil {
		return nil, false, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return nil, false, err
	}
	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	existing, err := s.users.GetUserByEmail(email)
	if err == nil {
		if err := s.users.UpdatePassword(existing.ID, hash); err != nil {
			return nil, false, fmt.Errorf("failed to set password: %w", err)
		}
		promoted, err := s.users.UpdateRole(existing.ID, entities.UserRoleAdmin)
		if err != nil {
			return nil, false, fmt.Errorf("failed to promote user: %w", err)
		}
		return promoted, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}

	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinNameLength {
		return nil, false, ErrNameInvalid
	}
	admin := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         entities.UserRoleAdmin,
		Provider:     entities.AuthProviderLocal,
	}
	if err := s.users.CreateUser(admin); err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	return admin, true, nil
}

// GetUserByID retrieves a user, mapping a missing row to ErrUserNotFound.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func validateEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmailRequired
	}
	// RFC 5321 limit
	if len(email) > 254 {
		return "", ErrEmailInvalid
	}
	if !emailPattern.MatchString(email) {
		return "", ErrEmailInvalid
	}
	return email, nil
}
