package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tripplanner/config"
	"tripplanner/models"
	"tripplanner/services"
	"tripplanner/utils"
)

const userLocalsKey = "user"

// tokenFromRequest reads the session cookie first, then a Bearer header
func tokenFromRequest(c *fiber.Ctx) (string, error) {
	if token := c.Cookies(config.CookieName); token != "" {
		return token, nil
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", utils.NewUnauthenticatedError("authorization required")
	}

	tokenParts := strings.SplitN(authHeader, " ", 2)
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") || strings.TrimSpace(tokenParts[1]) == "" {
		return "", utils.NewUnauthenticatedError("invalid authorization format")
	}
	return strings.TrimSpace(tokenParts[1]), nil
}

// Protected resolves the session token to a user and stores it for handlers
func Protected(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := tokenFromRequest(c)
		if err != nil {
			return err
		}

		claims, err := utils.ParseJWTToken(token)
		if err != nil {
			return utils.NewUnauthenticatedError("invalid or expired token")
		}

		user, err := auth.GetUser(c.UserContext(), claims.UserID)
		if err != nil {
			return err
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by Protected, or nil
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
