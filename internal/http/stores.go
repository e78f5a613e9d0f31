package http

import (
	"github.com/storyarc/storyarc/internal/audit"
	"github.com/storyarc/storyarc/internal/database/books"
	"github.com/storyarc/storyarc/internal/entities"
)

// Store interfaces used by the HTTP controllers. Each controller asks only
// for the operations it calls; the database repositories satisfy them.

// BookStore is the catalog access of BooksController.
type BookStore interface {
	List(f books.Filter) ([]entities.Book, int64, error)
	DistinctGenres() ([]string, error)
	GetByID(id uint) (*entities.Book, error)
	Create(book *entities.Book) error
	Update(id uint, patch books.Patch) (*entities.Book, error)
	Delete(id uint) error
}

// GenreStore is the genre access of GenresController.
type GenreStore interface {
	List(page, limit int) ([]entities.GenreWithCount, int64, error)
	Create(name string) (*entities.Genre, error)
	Rename(id uint, name string) (*entities.Genre, error)
	Delete(id uint) error
}

// ReviewReader lists reviews for the public and moderation views.
type ReviewReader interface {
	ApprovedForBook(bookID uint) ([]entities.Review, error)
	List(status entities.ReviewStatus) ([]entities.Review, error)
}

// TutorialReader lists and removes tutorials.
type TutorialReader interface {
	List(page, limit int) ([]entities.Tutorial, int64, error)
	Delete(id uint) error
}

// UserStore is the account administration access of UsersController.
type UserStore interface {
	GetUserByID(id uint) (*entities.User, error)
	ListUsers(page, limit int) ([]entities.User, int64, error)
	CountByRole(role entities.UserRole) (int64, error)
	UpdateRole(id uint, role entities.UserRole) (*entities.User, error)
}

// --- Dashboard aggregates ---

type BookCounter interface {
	Count() (int64, error)
	CountByGenre() ([]entities.GenreCount, error)
}

type RoleCounter interface {
	CountByRole(role entities.UserRole) (int64, error)
}

type ReviewCounter interface {
	CountByStatus(status entities.ReviewStatus) (int64, error)
}

// Auditor records security-relevant and administrative actions.
type Auditor interface {
	LogAuth(actor audit.Actor, action, email string, success bool)
	LogAction(actor audit.Actor, eventType entities.AuditEventType, action, entityType string, entityID uint, description string, metadata map[string]any, err error)
}

type noopAuditor struct{}

func (noopAuditor) LogAuth(audit.Actor, string, string, bool) {}

func (noopAuditor) LogAction(audit.Actor, entities.AuditEventType, string, string, uint, string, map[string]any, error) {
}

func auditorOrNoop(a Auditor) Auditor {
	if a == nil {
		return noopAuditor{}
	}
	return a
}
