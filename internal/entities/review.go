package entities

import "time"

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
)

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

type Review struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	BookID     uint         `gorm:"index" json:"book_id"`
	BookTitle  string       `gorm:"size:512" json:"book_title"`
	BookAuthor string       `gorm:"size:256" json:"book_author"`
	BookCover  string       `gorm:"size:2048" json:"book_cover"`
	UserID     uint         `gorm:"index" json:"user_id"`
	UserEmail  string       `gorm:"size:255" json:"user_email"`
	UserName   string       `gorm:"size:100" json:"user_name"`
	UserImage  string       `gorm:"size:2048" json:"user_image,omitempty"`
	Rating     int          `json:"rating"`
	Comment    string       `gorm:"type:text" json:"comment"`
	Status     ReviewStatus `gorm:"index;size:20;default:'pending'" json:"status"`
	CreatedAt  time.Time    `gorm:"index" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
