package entities

import "time"

type ShelfStatus string

const (
	ShelfStatusWantToRead       ShelfStatus = "Want to Read"
	ShelfStatusCurrentlyReading ShelfStatus = "Currently Reading"
	ShelfStatusRead             ShelfStatus = "Read"
)

// Valid reports whether s is one of the known shelf statuses.
func (s ShelfStatus) Valid() bool {
	switch s {
	case ShelfStatusWantToRead, ShelfStatusCurrentlyReading, ShelfStatusRead:
		return true
	}
	return false
}

// ShelfItem tracks one book on a user's shelf together with reading progress.
type ShelfItem struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	UserID     uint        `gorm:"uniqueIndex:idx_shelf_user_book" json:"user_id"`
	BookID     uint        `gorm:"uniqueIndex:idx_shelf_user_book;index" json:"book_id"`
	Status     ShelfStatus `gorm:"index;size:32" json:"status"`
	Progress   int         `json:"progress"` // pages read
	TotalPages int         `json:"total_pages,omitempty"`
	StartedAt  *time.Time  `json:"started_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
	AddedAt    time.Time   `json:"added_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Book       *Book       `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (ShelfItem) TableName() string {
	return "shelf_items"
}
