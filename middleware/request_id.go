package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	HeaderRequestID    = "X-Request-ID"
	requestIDLocalsKey = "request_id"
)

// RequestID tags every request with an id, reusing one supplied by a proxy
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Locals(requestIDLocalsKey, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

// RequestIDFrom returns the id assigned by RequestID, or ""
func RequestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocalsKey).(string)
	return id
}
