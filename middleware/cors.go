package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig defines the config for CORS middleware
type CORSConfig struct {
	// AllowedOrigins is a list of origins a cross-domain request can be executed from.
	// Empty means any origin, which disables credentials.
	AllowedOrigins []string

	AllowCredentials bool
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string

	// MaxAge is how long (in seconds) browsers may cache a preflight response
	MaxAge int
}

// DefaultCORSConfig returns a config suited to a SPA on the Vite dev server
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:           3600,
	}
}

// CORS creates a new CORS middleware handler
func CORS(config ...CORSConfig) fiber.Handler {
	cfg := DefaultCORSConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	allowedOrigins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[strings.TrimRight(origin, "/")] = struct{}{}
	}
	allowAny := len(allowedOrigins) == 0

	allowedMethods := strings.Join(cfg.AllowedMethods, ",")
	allowedHeaders := strings.Join(cfg.AllowedHeaders, ",")
	exposedHeaders := strings.Join(cfg.ExposedHeaders, ",")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		c.Vary(fiber.HeaderOrigin)

		allowed := false
		if allowAny {
			c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
			allowed = true
		} else if _, ok := allowedOrigins[origin]; ok {
			c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
			allowed = true
			if cfg.AllowCredentials {
				c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
			}
		}

		if c.Method() == fiber.MethodOptions {
			if allowed {
				c.Set(fiber.HeaderAccessControlAllowMethods, allowedMethods)
				c.Set(fiber.HeaderAccessControlAllowHeaders, allowedHeaders)
				c.Set(fiber.HeaderAccessControlExposeHeaders, exposedHeaders)
				c.Set(fiber.HeaderAccessControlMaxAge, maxAge)
			}
			return c.SendStatus(fiber.StatusNoContent)
		}

		if allowed && exposedHeaders != "" {
			c.Set(fiber.HeaderAccessControlExposeHeaders, exposedHeaders)
		}
		return c.Next()
	}
}
