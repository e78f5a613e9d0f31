package entities

import "time"

// UncategorizedGenre is the display name for books without a genre.
const UncategorizedGenre = "Uncategorized"

// AllGenres is the catalog filter value that disables genre filtering.
const AllGenres = "All Genres"

type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"index;size:512" json:"title"`
	Author        string    `gorm:"index;size:256" json:"author"`
	Genre         string    `gorm:"index;size:100" json:"genre"` // empty means uncategorized
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	Cover         string    `gorm:"size:2048" json:"cover,omitempty"`
	TotalPages    int       `json:"total_pages,omitempty"`
	PublishedYear int       `json:"published_year,omitempty"`
	Rating        float64   `gorm:"index;default:0" json:"rating"`
	TotalRatings  int       `gorm:"default:0" json:"total_ratings"`
	ShelvedCount  int       `gorm:"index;default:0" json:"shelved_count"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}
