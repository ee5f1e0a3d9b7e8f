package models

import "time"

type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Text      string    `gorm:"size:1000;not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	VideoID   uint      `gorm:"not null;index" json:"video_id"`
	CreatedAt time.Time `json:"created_at"`
}
