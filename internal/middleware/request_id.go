// Package middleware provides HTTP middleware components for the gateway.
package middleware

import (
	"fraudguard/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's request id, or assigns one, and attaches
// it to the request context so service logs can be correlated.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Locals("requestid", id)
		c.SetUserContext(logging.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}
