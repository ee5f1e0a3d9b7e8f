package utils

import "github.com/gofiber/fiber/v2"

// The API speaks two error dialects: the auth surface answers with
// {"message": ...} and everything under /api answers with {"error": ...}.
// Existing clients depend on both shapes.

// Message sends {"message": <text>} with the given status.
func Message(c *fiber.Ctx, status int, text string) error {
	return c.Status(status).JSON(fiber.Map{"message": text})
}

// Error sends {"error": <text>} with the given status.
func Error(c *fiber.Ctx, status int, text string) error {
	return c.Status(status).JSON(fiber.Map{"error": text})
}

func BadRequest(c *fiber.Ctx, text string) error {
	return Error(c, fiber.StatusBadRequest, text)
}

func NotFound(c *fiber.Ctx, text string) error {
	return Error(c, fiber.StatusNotFound, text)
}

func Forbidden(c *fiber.Ctx, text string) error {
	return Error(c, fiber.StatusForbidden, text)
}

// InternalError hides driver/file-system error text from clients.
func InternalError(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, "Internal server error")
}

// ValidationError formats validator.v10 field errors as a 400 response.
func ValidationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Validation failed",
		"details": fields,
	})
}
