package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tripplanner/utils"
)

// ErrorHandler is the fiber error handler: it renders *utils.AppError and
// *fiber.Error as {"error", "code", "details"} and hides internal causes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := utils.AsAppError(err); ok {
		if appErr.Kind == utils.KindInternal {
			utils.LogError("internal_error", err, map[string]interface{}{
				"method":     c.Method(),
				"path":       c.Path(),
				"request_id": RequestIDFrom(c),
			})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, utils.CodeInternal, "internal server error", nil)
		}
		return utils.ErrorResponse(c, appErr.Status(), appErr.Code, appErr.Message, appErr.Details)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return utils.ErrorResponse(c, fiberErr.Code, fiberCode(fiberErr.Code), fiberErr.Message, nil)
	}

	utils.LogError("unhandled_error", err, map[string]interface{}{
		"method":     c.Method(),
		"path":       c.Path(),
		"request_id": RequestIDFrom(c),
	})
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, utils.CodeInternal, "internal server error", nil)
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
		return utils.CodeValidation
	case fiber.StatusUnauthorized:
		return utils.CodeUnauthenticated
	case fiber.StatusForbidden:
		return utils.CodeForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return utils.CodeNotFound
	case fiber.StatusConflict:
		return utils.CodeConflict
	case fiber.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return utils.CodeInternal
	}
}
