package controllers

import (
	"errors"
	"strconv"
	"time"

	"courseplatform/backend/config"
	"courseplatform/backend/middleware"
	"courseplatform/backend/models"
	"courseplatform/backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const accessExpiresFormat = "2006-01-02 15:04:05"

type CoursesController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Storage  *utils.Storage
	Validate *validator.Validate
}

func NewCoursesController(db *gorm.DB, cfg *config.Config, storage *utils.Storage) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Storage: storage, Validate: newValidator()}
}

// GetCourses lists all courses for admins; students see only courses they hold
// a grant for, each with the grant's expiry.
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	coursesData := []fiber.Map{}

	if user.IsAdmin() {
		var courses []models.Course
		if err := cc.DB.Find(&courses).Error; err != nil {
			return utils.InternalError(c)
		}
		for _, course := range courses {
			coursesData = append(coursesData, fiber.Map{
				"id":            course.ID,
				"title":         course.Title,
				"description":   course.Description,
				"thumbnail_url": course.ThumbnailURL,
			})
		}
	} else {
		var accesses []models.CourseAccess
		if err := cc.DB.Where("user_id = ?", user.ID).Find(&accesses).Error; err != nil {
			return utils.InternalError(c)
		}
		for _, access := range accesses {
			var course models.Course
			if err := cc.DB.First(&course, access.CourseID).Error; err != nil {
				continue
			}
			coursesData = append(coursesData, fiber.Map{
				"id":             course.ID,
				"title":          course.Title,
				"description":    course.Description,
				"thumbnail_url":  course.ThumbnailURL,
				"access_expires": access.EndDate.Format(accessExpiresFormat),
			})
		}
	}

	return c.JSON(fiber.Map{"courses": coursesData})
}

// CreateCourse accepts either JSON or form fields; all three fields are required.
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input struct {
		Title        string `json:"title" form:"title"`
		Description  string `json:"description" form:"description"`
		ThumbnailURL string `json:"thumbnail_url" form:"thumbnail_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}
	if input.Description == "" {
		return utils.BadRequest(c, "Description is required")
	}
	if input.ThumbnailURL == "" {
		return utils.BadRequest(c, "Thumbnail URL is required")
	}

	course := models.Course{
		Title:        input.Title,
		Description:  input.Description,
		ThumbnailURL: input.ThumbnailURL,
		CreatedBy:    user.ID,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Course created successfully",
		"course_id":     course.ID,
		"thumbnail_url": course.ThumbnailURL,
	})
}

func (cc *CoursesController) GetCourseDetail(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalError(c)
	}

	if denied, resp := middleware.CourseAccessError(c, middleware.EnsureCourseAccess(cc.DB, user, course.ID)); denied {
		return resp
	}

	return c.JSON(fiber.Map{
		"course": fiber.Map{
			"id":            course.ID,
			"title":         course.Title,
			"description":   course.Description,
			"thumbnail_url": course.ThumbnailURL,
			"created_by":    course.CreatedBy,
			"created_at":    course.CreatedAt,
		},
	})
}

// UpdateCourse edits title/description and optionally replaces the thumbnail
// from a multipart upload. The old thumbnail file is removed only after the
// new reference is durable; a failed save removes the fresh file instead.
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalError(c)
	}

	oldThumbnail := ""
	newThumbnail := ""
	if file, err := c.FormFile("thumbnail"); err == nil && file.Filename != "" {
		if !utils.AllowedFile(file.Filename, utils.AllowedImageExtensions) {
			return utils.BadRequest(c, "Invalid image file")
		}
		newThumbnail, err = cc.Storage.Save(file, utils.CourseFolder)
		if err != nil {
			return utils.InternalError(c)
		}
		oldThumbnail = course.ThumbnailURL
		course.ThumbnailURL = newThumbnail
	}

	if title := c.FormValue("title"); title != "" {
		course.Title = title
	}
	if description := c.FormValue("description"); description != "" {
		course.Description = description
	}

	if err := cc.DB.Save(&course).Error; err != nil {
		cc.Storage.Delete(newThumbnail)
		return utils.InternalError(c)
	}

	if newThumbnail != "" {
		cc.Storage.Delete(oldThumbnail)
	}

	return c.JSON(fiber.Map{"message": "Course updated successfully"})
}

// DeleteCourse removes the course and everything hanging off it - comments on
// its videos, the videos, the PDFs and all access grants - in one transaction.
// Backing files are deleted only after the transaction commits, so a rollback
// never leaves dangling references to removed files.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalError(c)
	}

	var videos []models.Video
	if err := cc.DB.Where("course_id = ?", course.ID).Find(&videos).Error; err != nil {
		return utils.InternalError(c)
	}
	var pdfs []models.PdfDocument
	if err := cc.DB.Where("course_id = ?", course.ID).Find(&pdfs).Error; err != nil {
		return utils.InternalError(c)
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		videoIDs := tx.Model(&models.Video{}).Select("id").Where("course_id = ?", course.ID)
		if err := tx.Where("video_id IN (?)", videoIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Video{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.PdfDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.CourseAccess{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		return utils.InternalError(c)
	}

	cc.Storage.Delete(course.ThumbnailURL)
	for _, video := range videos {
		if video.Source == models.VideoSourceLocal {
			cc.Storage.Delete(video.FilePath)
		}
		cc.Storage.Delete(video.ThumbnailURL)
	}
	for _, pdf := range pdfs {
		cc.Storage.Delete(pdf.FilePath)
	}

	return c.JSON(fiber.Map{"message": "Course deleted successfully"})
}

type GrantAccessInput struct {
	UserID       uint `json:"user_id" validate:"required"`
	CourseID     uint `json:"course_id" validate:"required"`
	DurationDays int  `json:"duration_days" validate:"required,gt=0"`
}

type RevokeAccessInput struct {
	UserID   uint `json:"user_id" validate:"required"`
	CourseID uint `json:"course_id" validate:"required"`
}

// GrantAccess opens (or extends) a student's access window. The write is a
// single upsert keyed on the (user, course) unique index, so an existing grant
// gets its end date replaced and concurrent grants cannot stack rows.
func (cc *CoursesController) GrantAccess(c *fiber.Ctx) error {
	var input GrantAccessInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := cc.Validate.Struct(input); err != nil {
		return utils.BadRequest(c, "Missing required fields")
	}

	var user models.User
	var course models.Course
	userErr := cc.DB.First(&user, input.UserID).Error
	courseErr := cc.DB.First(&course, input.CourseID).Error
	if errors.Is(userErr, gorm.ErrRecordNotFound) || errors.Is(courseErr, gorm.ErrRecordNotFound) {
		return utils.NotFound(c, "User or course not found")
	}
	if userErr != nil || courseErr != nil {
		return utils.InternalError(c)
	}

	now := time.Now().UTC()
	endDate := now.AddDate(0, 0, input.DurationDays)

	access := models.CourseAccess{
		UserID:    input.UserID,
		CourseID:  input.CourseID,
		StartDate: now,
		EndDate:   endDate,
	}
	err := cc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"end_date": endDate}),
	}).Create(&access).Error
	if err != nil {
		return utils.InternalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Course access granted successfully",
		"access_expires": endDate.Format(accessExpiresFormat),
	})
}

func (cc *CoursesController) RevokeAccess(c *fiber.Ctx) error {
	var input RevokeAccessInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if err := cc.Validate.Struct(input); err != nil {
		return utils.BadRequest(c, "Missing required fields")
	}

	result := cc.DB.Where("user_id = ? AND course_id = ?", input.UserID, input.CourseID).
		Delete(&models.CourseAccess{})
	if result.Error != nil {
		return utils.InternalError(c)
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "Access record not found")
	}

	return c.JSON(fiber.Map{"message": "Course access revoked successfully"})
}
