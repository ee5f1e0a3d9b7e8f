package models

import "time"

const (
	VideoSourceYouTube = "youtube"
	VideoSourceLocal   = "local"
)

type Course struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"size:1000" json:"description"`
	ThumbnailURL string    `gorm:"size:500" json:"thumbnail_url"`
	CreatedBy    uint      `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`

	Videos       []Video       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PdfDocuments []PdfDocument `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Video belongs to a course. Order is 1-based and dense within the course,
// maintained by the videos controller on every append and delete.
type Video struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	FilePath     string    `gorm:"size:500;not null" json:"file_path"`
	ThumbnailURL string    `gorm:"size:500" json:"thumbnail_url"`
	CourseID     uint      `gorm:"not null;index" json:"course_id"`
	Order        int       `gorm:"column:order;not null" json:"order"`
	Source       string    `gorm:"size:20;not null;default:local" json:"source"` // youtube, local
	CreatedAt    time.Time `json:"created_at"`

	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// PdfDocument ordering is independent from video ordering in the same course.
type PdfDocument struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	FilePath  string    `gorm:"size:500;not null" json:"file_path"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	Order     int       `gorm:"column:order;not null" json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseAccess is the per-student access window for a course. One row per
// (user, course) pair, enforced by the composite unique index; granting again
// moves the window instead of stacking rows.
type CourseAccess struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_course_access_user_course" json:"user_id"`
	CourseID  uint      `gorm:"not null;index;uniqueIndex:idx_course_access_user_course" json:"course_id"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
}
