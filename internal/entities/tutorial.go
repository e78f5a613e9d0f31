package entities

import "time"

type Tutorial struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:256" json:"title"`
	URL       string    `gorm:"size:2048" json:"url"`
	VideoID   string    `gorm:"size:20" json:"video_id"`
	Category  string    `gorm:"index;size:100" json:"category"`
	Thumbnail string    `gorm:"size:2048" json:"thumbnail"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Tutorial) TableName() string {
	return "tutorials"
}
