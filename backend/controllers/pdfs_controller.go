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

type PdfsController struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Storage *utils.Storage
}

func NewPdfsController(db *gorm.DB, cfg *config.Config, storage *utils.Storage) *PdfsController {
	return &PdfsController{DB: db, Cfg: cfg, Storage: storage}
}

func (pc *PdfsController) GetCoursePdfs(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := pc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalError(c)
	}

	if denied, resp := middleware.CourseAccessError(c, middleware.EnsureCourseAccess(pc.DB, user, course.ID)); denied {
		return resp
	}

	var pdfs []models.PdfDocument
	if err := pc.DB.Where("course_id = ?", course.ID).Order(`"order" ASC`).Find(&pdfs).Error; err != nil {
		return utils.InternalError(c)
	}

	pdfsData := []fiber.Map{}
	for _, pdf := range pdfs {
		pdfsData = append(pdfsData, fiber.Map{
			"id":         pdf.ID,
			"title":      pdf.Title,
			"file_path":  pdf.FilePath,
			"order":      pdf.Order,
			"created_at": pdf.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"pdfs": pdfsData})
}

// AddPdf appends a document at the end of the course's PDF ordering.
func (pc *PdfsController) AddPdf(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := pc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalError(c)
	}

	title := c.FormValue("title")
	if title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	file, err := c.FormFile("pdf")
	if err != nil || file.Filename == "" || !utils.AllowedFile(file.Filename, utils.AllowedPdfExtensions) {
		return utils.BadRequest(c, "Invalid PDF file")
	}

	path, err := pc.Storage.Save(file, utils.PdfFolder)
	if err != nil {
		return utils.InternalError(c)
	}

	pdf := models.PdfDocument{
		Title:    title,
		FilePath: path,
		CourseID: course.ID,
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockCourse(tx, course.ID); err != nil {
			return err
		}
		order, err := nextOrder(tx, &models.PdfDocument{}, course.ID)
		if err != nil {
			return err
		}
		pdf.Order = order
		return tx.Create(&pdf).Error
	})
	if err != nil {
		pc.Storage.Delete(path)
		return utils.InternalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "PDF added successfully",
		"pdf": fiber.Map{
			"id":         pdf.ID,
			"title":      pdf.Title,
			"file_path":  pdf.FilePath,
			"order":      pdf.Order,
			"created_at": pdf.CreatedAt,
		},
	})
}

// GetPdf downloads the document.
func (pc *PdfsController) GetPdf(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	pdfID, err := strconv.Atoi(c.Params("pdfId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid PDF ID")
	}

	var pdf models.PdfDocument
	if err := pc.DB.Where("id = ? AND course_id = ?", pdfID, courseID).First(&pdf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "PDF not found")
		}
		return utils.InternalError(c)
	}

	if denied, resp := middleware.CourseAccessError(c, middleware.EnsureCourseAccess(pc.DB, user, pdf.CourseID)); denied {
		return resp
	}

	return c.Download(pc.Storage.Abs(pdf.FilePath), pdf.Title+".pdf")
}

// UpdatePdf can rename, replace the stored file and/or move the document to a
// new position. The move shifts every neighbour between the two positions by
// one and keeps the ordering dense; position changes are serialised by the
// course row lock. File replacement follows the commit-first policy: the old
// file is removed only after the database accepted the new reference.
func (pc *PdfsController) UpdatePdf(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	pdfID, err := strconv.Atoi(c.Params("pdfId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid PDF ID")
	}

	var pdf models.PdfDocument
	if err := pc.DB.Where("id = ? AND course_id = ?", pdfID, courseID).First(&pdf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "PDF not found")
		}
		return utils.InternalError(c)
	}

	if title := c.FormValue("title"); title != "" {
		pdf.Title = title
	}

	targetOrder := pdf.Order
	if orderValue := c.FormValue("order"); orderValue != "" {
		targetOrder, err = strconv.Atoi(orderValue)
		if err != nil {
			return utils.BadRequest(c, "Invalid order value")
		}
	}

	oldFile := ""
	newFile := ""
	if file, ferr := c.FormFile("pdf"); ferr == nil && file.Filename != "" {
		if !utils.AllowedFile(file.Filename, utils.AllowedPdfExtensions) {
			return utils.BadRequest(c, "Invalid PDF file")
		}
		newFile, err = pc.Storage.Save(file, utils.PdfFolder)
		if err != nil {
			return utils.InternalError(c)
		}
		oldFile = pdf.FilePath
		pdf.FilePath = newFile
	}

	oldOrder := pdf.Order
	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockCourse(tx, pdf.CourseID); err != nil {
			return err
		}
		if targetOrder != oldOrder {
			size, err := collectionSize(tx, &models.PdfDocument{}, pdf.CourseID)
			if err != nil {
				return err
			}
			if targetOrder < 1 || targetOrder > size {
				return errInvalidOrder
			}
			if err := moveOrder(tx, &models.PdfDocument{}, pdf.CourseID, oldOrder, targetOrder); err != nil {
				return err
			}
			pdf.Order = targetOrder
		}
		return tx.Save(&pdf).Error
	})
	if err != nil {
		pc.Storage.Delete(newFile)
		if errors.Is(err, errInvalidOrder) {
			return utils.BadRequest(c, "Order is out of range")
		}
		return utils.InternalError(c)
	}

	if newFile != "" {
		pc.Storage.Delete(oldFile)
	}

	return c.JSON(fiber.Map{
		"message": "PDF updated successfully",
		"pdf": fiber.Map{
			"id":         pdf.ID,
			"title":      pdf.Title,
			"file_path":  pdf.FilePath,
			"order":      pdf.Order,
			"created_at": pdf.CreatedAt,
		},
	})
}

var errInvalidOrder = errors.New("order out of range")

// DeletePdf removes the row and closes the order gap transactionally; the
// backing file goes away only after the commit.
func (pc *PdfsController) DeletePdf(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	pdfID, err := strconv.Atoi(c.Params("pdfId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid PDF ID")
	}

	var pdf models.PdfDocument
	if err := pc.DB.Where("id = ? AND course_id = ?", pdfID, courseID).First(&pdf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "PDF not found")
		}
		return utils.InternalError(c)
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockCourse(tx, pdf.CourseID); err != nil {
			return err
		}
		if err := tx.Delete(&pdf).Error; err != nil {
			return err
		}
		return closeOrderGap(tx, &models.PdfDocument{}, pdf.CourseID, pdf.Order)
	})
	if err != nil {
		return utils.InternalError(c)
	}

	pc.Storage.Delete(pdf.FilePath)

	return c.JSON(fiber.Map{"message": "PDF deleted successfully"})
}
