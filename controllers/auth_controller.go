package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"tripplanner/config"
	"tripplanner/middleware"
	"tripplanner/models"
	"tripplanner/services"
	"tripplanner/utils"
)

type AuthController struct {
	Service *services.AuthService
	Logger  *logrus.Entry
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{Service: service, Logger: utils.Component("auth_controller")}
}

// setSessionCookie stores the token in the httpOnly session cookie
func setSessionCookie(c *fiber.Ctx, token string) {
	sameSite := fiber.CookieSameSiteLaxMode
	if config.AppConfig.IsProduction() {
		sameSite = fiber.CookieSameSiteStrictMode
	}

	cookie := new(fiber.Cookie)
	cookie.Name = config.CookieName
	cookie.Value = token
	cookie.Path = "/"
	cookie.MaxAge = int(config.AppConfig.JWTTTL / time.Second)
	cookie.Expires = time.Now().Add(config.AppConfig.JWTTTL)
	cookie.HTTPOnly = true
	cookie.Secure = config.AppConfig.IsProduction()
	cookie.SameSite = sameSite
	c.Cookie(cookie)
}

func (ac *AuthController) respondWithSession(c *fiber.Ctx, status int, user *models.User) error {
	token, err := utils.GenerateJWTToken(user)
	if err != nil {
		return utils.NewInternalError("failed to issue token", err)
	}
	setSessionCookie(c, token)

	return c.Status(status).JSON(fiber.Map{
		"user":  user.Summary(),
		"token": token,
	})
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	user, err := ac.Service.Register(c.UserContext(), input)
	if err != nil {
		return err
	}

	return ac.respondWithSession(c, fiber.StatusCreated, user)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := utils.ParseBody(c, &input); err != nil {
		return err
	}

	user, err := ac.Service.Login(c.UserContext(), input)
	if err != nil {
		return err
	}

	ac.Logger.WithField("user_id", user.ID).Info("User logged in")
	return ac.respondWithSession(c, fiber.StatusOK, user)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	cookie := new(fiber.Cookie)
	cookie.Name = config.CookieName
	cookie.Value = ""
	cookie.Path = "/"
	cookie.Expires = time.Unix(0, 0)
	cookie.MaxAge = -1
	cookie.HTTPOnly = true
	cookie.Secure = config.AppConfig.IsProduction()
	c.Cookie(cookie)

	return utils.MessageResponse(c, fiber.StatusOK, "Logged out successfully")
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return utils.NewUnauthenticatedError("authorization required")
	}
	return c.JSON(user.Summary())
}
