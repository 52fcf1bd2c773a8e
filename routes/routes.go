package routes

import (
	"path/filepath"
	"strings"

	controller "tripplanner/controllers"
	"tripplanner/metrics"
	"tripplanner/middleware"
	"tripplanner/services"
	"tripplanner/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Options carries the process-level dependencies the routes need
type Options struct {
	DB *gorm.DB

	// Notifier sends "added to group" mails; nil disables them
	Notifier utils.Notifier

	// RateLimitStorage backs the auth limiter; nil keeps counters in memory
	RateLimitStorage fiber.Storage
	AuthRateLimit    int

	// StaticDir serves a built SPA when set
	StaticDir string

	// AccessLog enables the fiber request logger on /api
	AccessLog bool

	CORSOrigins []string
}

// NewApp builds the fiber application with error handling, CORS and all routes
func NewApp(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "tripplanner",
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    1 * 1024 * 1024,
	})

	corsConfig := middleware.DefaultCORSConfig()
	if len(opts.CORSOrigins) > 0 {
		corsConfig.AllowedOrigins = opts.CORSOrigins
	}
	app.Use(middleware.RequestID())
	app.Use(middleware.CORS(corsConfig))

	SetupRoutes(app, opts)
	return app
}

func SetupAuthRoutes(api fiber.Router, auth *services.AuthService, opts Options) {
	authController := controller.NewAuthController(auth)
	limit := opts.AuthRateLimit
	if limit <= 0 {
		limit = 10
	}
	limiter := middleware.AuthRateLimiter(limit, opts.RateLimitStorage)

	group := api.Group("/auth")
	group.Post("/register", limiter, authController.Register)
	group.Post("/login", limiter, authController.Login)
	group.Post("/logout", authController.Logout)
	group.Get("/me", middleware.Protected(auth), authController.Me)
}

func SetupAPIRoutes(api fiber.Router, auth *services.AuthService, opts Options) {
	groupController := controller.NewGroupController(services.NewGroupService(opts.DB))
	memberController := controller.NewMemberController(services.NewMembershipService(opts.DB, opts.Notifier))
	eventController := controller.NewEventController(services.NewEventService(opts.DB))
	scheduleController := controller.NewScheduleController(services.NewScheduleService(opts.DB))
	paymentController := controller.NewPaymentController(services.NewExpenseService(opts.DB))

	protected := middleware.Protected(auth)

	// Group routes; static paths are registered before :slug
	groups := api.Group("/groups", protected)
	groups.Post("/create", groupController.CreateGroup)
	groups.Get("/list", groupController.ListGroups)
	groups.Get("/:slug", groupController.GetGroup)
	groups.Get("/:slug/members", memberController.ListMembers)
	groups.Post("/:slug/members", memberController.AddMember)
	groups.Delete("/:slug/members/:memberId", memberController.RemoveMember)

	// Event catalog and schedule routes
	events := api.Group("/events/:slug", protected)
	events.Post("/events", eventController.CreateEvent)
	events.Get("/events", eventController.ListEvents)
	events.Put("/events/:eventId", eventController.UpdateEvent)
	events.Delete("/events/:eventId", eventController.DeleteEvent)
	events.Get("/schedule", scheduleController.ListSchedule)
	events.Post("/schedule", scheduleController.CreateSchedule)
	events.Put("/schedule/:scheduleId", scheduleController.UpdateSchedule)
	events.Delete("/schedule/:scheduleId", scheduleController.DeleteSchedule)

	// Expense routes
	payments := api.Group("/payments/:slug", protected)
	payments.Post("/addpayments", paymentController.AddPayment)
	payments.Get("/expenses", paymentController.ListExpenses)
	payments.Get("/balances", paymentController.GetBalances)
}

func SetupRoutes(app *fiber.App, opts Options) {
	app.Use(metrics.Middleware())

	// Setup health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	var apiHandlers []fiber.Handler
	if opts.AccessLog {
		apiHandlers = append(apiHandlers, logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path} ${respHeader:X-Request-ID}\n",
		}))
	}
	api := app.Group("/api", apiHandlers...)

	auth := services.NewAuthService(opts.DB)
	SetupAuthRoutes(api, auth, opts)
	SetupAPIRoutes(api, auth, opts)

	if opts.StaticDir != "" {
		app.Static("/", opts.StaticDir)
	}

	// Setup 404 handler; non-API GETs fall back to the SPA entry point
	index := filepath.Join(opts.StaticDir, "index.html")
	app.Use(func(c *fiber.Ctx) error {
		if opts.StaticDir != "" && c.Method() == fiber.MethodGet && !strings.HasPrefix(c.Path(), "/api") {
			return c.SendFile(index)
		}
		return utils.ErrorResponse(c, fiber.StatusNotFound, utils.CodeNotFound, "The requested resource was not found", nil)
	})
}
