package entities

import "time"

type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Genre) TableName() string {
	return "genres"
}

// GenreWithCount is a genre together with the number of books filed under it.
type GenreWithCount struct {
	Genre
	BookCount int64 `json:"book_count"`
}

// GenreCount is one bucket of the books-per-genre chart.
type GenreCount struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}
