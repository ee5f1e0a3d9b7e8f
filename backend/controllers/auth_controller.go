package controllers

import (
	"errors"
	"time"

	"courseplatform/backend/config"
	"courseplatform/backend/models"
	"courseplatform/backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const generatedPasswordLength = 12

type AuthController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Validate: newValidator()}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterAccountInput struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// Login authenticates by email/password and issues a one-hour bearer token.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Message(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := ac.Validate.Struct(input); err != nil {
		return utils.Message(c, fiber.StatusUnauthorized, "Invalid credentials!")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Message(c, fiber.StatusUnauthorized, "Invalid credentials!")
		}
		return utils.InternalError(c)
	}

	if !utils.CheckPassword(user.PasswordHash, input.Password) {
		return utils.Message(c, fiber.StatusUnauthorized, "Invalid credentials!")
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Email, ac.Cfg)
	if err != nil {
		return utils.InternalError(c)
	}

	return c.JSON(fiber.Map{
		"token":     token,
		"login":     user.Email,
		"user_role": user.Role,
	})
}

// RegisterAccount creates a student account with a generated password. Admin
// only; self-registration does not exist. The plaintext password appears in
// this response and nowhere else.
func (ac *AuthController) RegisterAccount(c *fiber.Ctx) error {
	var input RegisterAccountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.Message(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	if err := ac.Validate.Struct(input); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return utils.Message(c, fiber.StatusBadRequest,
				"Missing or invalid field: "+ve[0].Field())
		}
		return utils.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var existing models.User
	err := ac.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return utils.Message(c, fiber.StatusBadRequest, "User with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalError(c)
	}

	password, err := utils.GeneratePassword(generatedPasswordLength)
	if err != nil {
		return utils.InternalError(c)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return utils.InternalError(c)
	}

	user := models.User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         models.RoleStudent,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.InternalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"credentials": fiber.Map{
			"email":    user.Email,
			"password": password,
		},
	})
}

// Logout clears the client-side token cookie. Tokens themselves stay valid
// until expiry; there is no server-side revocation list.
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:    "token",
		Value:   "",
		Expires: time.Unix(0, 0),
	})
	return utils.Message(c, fiber.StatusOK, "Logout successful")
}
