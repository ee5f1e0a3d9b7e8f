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

type UsersController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUsersController(db *gorm.DB, cfg *config.Config) *UsersController {
	return &UsersController{DB: db, Cfg: cfg}
}

// GetUsers lists student accounts for the admin panel.
func (uc *UsersController) GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Where("role = ?", models.RoleStudent).Find(&users).Error; err != nil {
		return utils.InternalError(c)
	}

	usersData := []fiber.Map{}
	for _, user := range users {
		usersData = append(usersData, fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.FirstName,
		})
	}

	return c.JSON(fiber.Map{"users": usersData})
}

func (uc *UsersController) GetUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c)
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
			"created_at": user.CreatedAt,
		},
	})
}

// DeleteUser removes an account together with its grants and comments. The
// acting admin cannot delete themselves.
func (uc *UsersController) DeleteUser(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)

	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	if admin.ID == uint(userID) {
		return utils.BadRequest(c, "Cannot delete your own account")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c)
	}

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CourseAccess{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return utils.InternalError(c)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
