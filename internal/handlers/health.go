package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck pings one named dependency.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
}

func NewHealthHandler(timeout time.Duration, checks ...HealthCheck) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{checks: checks, timeout: timeout}
}

// Health reports 200 when every dependency answers, 503 otherwise.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	status := "ok"
	code := fiber.StatusOK
	services := fiber.Map{}
	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			services[check.Name] = "unavailable"
			status = "degraded"
			code = fiber.StatusServiceUnavailable
			continue
		}
		services[check.Name] = "connected"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"version":  "1.0.0",
		"services": services,
	})
}
