package controllers

import (
	"errors"
	"strconv"
	"time"

	"courseplatform/backend/config"
	"courseplatform/backend/middleware"
	"courseplatform/backend/models"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CommentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCommentsController(db *gorm.DB, cfg *config.Config) *CommentsController {
	return &CommentsController{DB: db, Cfg: cfg}
}

type commentRow struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// loadVideoComments returns the comment thread for a video, newest first,
// with author first names resolved.
func loadVideoComments(db *gorm.DB, videoID uint) ([]commentRow, error) {
	rows := []commentRow{}
	err := db.Model(&models.Comment{}).
		Select("comments.id, comments.text, users.first_name AS user_name, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.video_id = ?", videoID).
		Order("comments.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (cc *CommentsController) GetComments(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	videoID, err := strconv.Atoi(c.Params("videoId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid video ID")
	}

	var video models.Video
	if err := cc.DB.Where("id = ? AND course_id = ?", videoID, courseID).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Video not found")
		}
		return utils.InternalError(c)
	}

	if denied, resp := middleware.CourseAccessError(c, middleware.EnsureCourseAccess(cc.DB, user, video.CourseID)); denied {
		return resp
	}

	comments, err := loadVideoComments(cc.DB, video.ID)
	if err != nil {
		return utils.InternalError(c)
	}

	return c.JSON(fiber.Map{"comments": comments})
}

// AddComment posts to the video's thread. Any viewer with course access may
// comment; comments are only ever removed together with their video.
func (cc *CommentsController) AddComment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	videoID, err := strconv.Atoi(c.Params("videoId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid video ID")
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil || input.Text == "" {
		return utils.BadRequest(c, "Comment text is required")
	}

	var video models.Video
	if err := cc.DB.Where("id = ? AND course_id = ?", videoID, courseID).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Video not found")
		}
		return utils.InternalError(c)
	}

	if denied, resp := middleware.CourseAccessError(c, middleware.EnsureCourseAccess(cc.DB, user, video.CourseID)); denied {
		return resp
	}

	comment := models.Comment{
		Text:    input.Text,
		UserID:  user.ID,
		VideoID: video.ID,
	}
	if err := cc.DB.Create(&comment).Error; err != nil {
		return utils.InternalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added successfully",
		"comment": fiber.Map{
			"id":         comment.ID,
			"text":       comment.Text,
			"user_name":  user.FirstName,
			"created_at": comment.CreatedAt,
		},
	})
}
