package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Pointer returns a pointer to the given value
func Pointer[T any](v T) *T {
	return &v
}

// ParamID parses a positive numeric route parameter
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	return ParseID(c.Params(name), name)
}

// ParseID parses a positive numeric identifier
func ParseID(value, name string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, NewValidationError("invalid %s", name)
	}
	return uint(id), nil
}

// ErrorResponse writes the standard error payload
func ErrorResponse(c *fiber.Ctx, status int, code, message string, details interface{}) error {
	response := fiber.Map{
		"error": message,
		"code":  code,
	}
	if details != nil {
		response["details"] = details
	}
	return c.Status(status).JSON(response)
}

// MessageResponse writes {"message": ...} with the given status
func MessageResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
	})
}
