package controllers

import (
	"errors"
	"strconv"

	"courseplatform/backend/config"
	"courseplatform/backend/middleware"
	"courseplatform/backend/models"
	"courseplatform/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VideosController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Storage *utils.Storage
}

func NewVideosController(db *gorm.DB, cfg *config.Config, storage *utils.Storage) *VideosController {
	return &VideosController{DB: db, Cfg: cfg, Storage: storage}
}

func (vc *VideosController) GetCourseVideos(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := vc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalError(c)
	}

	if denied, resp := middleware.CourseAccessError(c, middleware.EnsureCourseAccess(vc.DB, user, course.ID)); denied {
		return resp
	}

	var videos []models.Video
	if err := vc.DB.Where("course_id = ?", course.ID).Order(`"order" ASC`).Find(&videos).Error; err != nil {
		return utils.InternalError(c)
	}

	videosData := []fiber.Map{}
	for _, video := range videos {
		videosData = append(videosData, fiber.Map{
			"id":            video.ID,
			"title":         video.Title,
			"file_path":     video.FilePath,
			"thumbnail_url": video.ThumbnailURL,
			"order":         video.Order,
			"source":        video.Source,
		})
	}

	return c.JSON(fiber.Map{"videos": videosData})
}

// AddVideo appends a video at the end of the course's ordering. Two input
// modes: a multipart upload becomes a "local" video, a JSON body carrying a
// video URL becomes a "youtube" one.
func (vc *VideosController) AddVideo(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := vc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalError(c)
	}

	video := models.Video{CourseID: course.ID}
	savedFiles := []string{}

	if file, ferr := c.FormFile("video"); ferr == nil && file.Filename != "" {
		if !utils.AllowedFile(file.Filename, utils.AllowedVideoExtensions) {
			return utils.BadRequest(c, "Invalid video file")
		}
		video.Title = c.FormValue("title")
		if video.Title == "" {
			return utils.BadRequest(c, "Title is required")
		}

		path, serr := vc.Storage.Save(file, utils.VideoFolder)
		if serr != nil {
			return utils.InternalError(c)
		}
		savedFiles = append(savedFiles, path)
		video.FilePath = path
		video.Source = models.VideoSourceLocal

		if thumb, terr := c.FormFile("thumbnail"); terr == nil && thumb.Filename != "" {
			if !utils.AllowedFile(thumb.Filename, utils.AllowedImageExtensions) {
				vc.Storage.Delete(path)
				return utils.BadRequest(c, "Invalid image file")
			}
			thumbPath, serr := vc.Storage.Save(thumb, utils.VideoFolder)
			if serr != nil {
				vc.Storage.Delete(path)
				return utils.InternalError(c)
			}
			savedFiles = append(savedFiles, thumbPath)
			video.ThumbnailURL = thumbPath
		}
	} else {
		var input struct {
			Title        string `json:"title"`
			VideoURL     string `json:"video_url"`
			ThumbnailURL string `json:"thumbnail_url"`
		}
		if err := c.BodyParser(&input); err != nil {
			return utils.BadRequest(c, "No data provided")
		}
		if input.Title == "" || input.VideoURL == "" {
			return utils.BadRequest(c, "Title and video URL are required")
		}
		video.Title = input.Title
		video.FilePath = input.VideoURL
		video.ThumbnailURL = input.ThumbnailURL
		video.Source = models.VideoSourceYouTube
	}

	err = vc.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockCourse(tx, course.ID); err != nil {
			return err
		}
		order, err := nextOrder(tx, &models.Video{}, course.ID)
		if err != nil {
			return err
		}
		video.Order = order
		return tx.Create(&video).Error
	})
	if err != nil {
		for _, path := range savedFiles {
			vc.Storage.Delete(path)
		}
		return utils.InternalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Video added successfully",
		"video_id":  video.ID,
		"video_url": video.FilePath,
	})
}

// GetVideoDetail returns the video with its comment thread, newest first.
func (vc *VideosController) GetVideoDetail(c *fiber.Ctx) error {
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
	if err := vc.DB.Where("id = ? AND course_id = ?", videoID, courseID).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Video not found")
		}
		return utils.InternalError(c)
	}

	if denied, resp := middleware.CourseAccessError(c, middleware.EnsureCourseAccess(vc.DB, user, video.CourseID)); denied {
		return resp
	}

	commentsData, err := loadVideoComments(vc.DB, video.ID)
	if err != nil {
		return utils.InternalError(c)
	}

	return c.JSON(fiber.Map{
		"video": fiber.Map{
			"id":            video.ID,
			"title":         video.Title,
			"file_path":     video.FilePath,
			"thumbnail_url": video.ThumbnailURL,
			"order":         video.Order,
			"source":        video.Source,
			"course_id":     video.CourseID,
			"comments":      commentsData,
		},
	})
}

// DeleteVideo removes the video, its comments and closes the order gap in one
// transaction; a stored local file goes away only after the commit.
func (vc *VideosController) DeleteVideo(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	videoID, err := strconv.Atoi(c.Params("videoId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid video ID")
	}

	var video models.Video
	if err := vc.DB.Where("id = ? AND course_id = ?", videoID, courseID).First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Video not found")
		}
		return utils.InternalError(c)
	}

	err = vc.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockCourse(tx, video.CourseID); err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", video.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&video).Error; err != nil {
			return err
		}
		return closeOrderGap(tx, &models.Video{}, video.CourseID, video.Order)
	})
	if err != nil {
		return utils.InternalError(c)
	}

	if video.Source == models.VideoSourceLocal {
		vc.Storage.Delete(video.FilePath)
	}
	vc.Storage.Delete(video.ThumbnailURL)

	return c.JSON(fiber.Map{"message": "Video deleted successfully"})
}
