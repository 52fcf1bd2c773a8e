package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"tripplanner/config"
	"tripplanner/middleware"
	"tripplanner/routes"
	"tripplanner/utils"
)

func main() {
	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	utils.SetupLogger(config.AppConfig.Environment, config.AppConfig.LogLevel)
	log := utils.Component("main")

	// Initialize Sentry when configured
	if config.AppConfig.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		})
		if err != nil {
			log.WithError(err).Warn("Sentry initialization failed")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Rate limit counters live in Redis when available
	var rateStorage fiber.Storage
	if config.AppConfig.Redis.Enabled {
		redisStorage := middleware.NewRedisStorage(config.AppConfig.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisStorage.Ping(ctx); err != nil {
			log.WithError(err).Warn("Redis unavailable, rate limiting falls back to memory")
			_ = redisStorage.Close()
		} else {
			rateStorage = redisStorage
			defer redisStorage.Close()
		}
		cancel()
	}

	mailer := utils.NewMailer(utils.SMTPSettings{
		Host:      config.AppConfig.SMTPHost,
		Port:      config.AppConfig.SMTPPort,
		Username:  config.AppConfig.SMTPUsername,
		Password:  config.AppConfig.SMTPPassword,
		FromEmail: config.AppConfig.FromEmail,
		FromName:  "Trip Planner",
	})
	if !mailer.Enabled() {
		log.Info("SMTP not configured, member notifications are disabled")
	}

	app := routes.NewApp(routes.Options{
		DB:               config.DB,
		Notifier:         mailer,
		RateLimitStorage: rateStorage,
		AuthRateLimit:    config.AppConfig.AuthRateLimit,
		StaticDir:        config.AppConfig.StaticDir,
		AccessLog:        true,
		CORSOrigins:      config.AppConfig.CORSOrigins,
	})

	// Shut down cleanly on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	// Start server
	log.Infof("Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
