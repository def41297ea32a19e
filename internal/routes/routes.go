// Package routes defines the API routing configuration.
package routes

import (
	"net/http"

	"fraudguard/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Handlers groups everything SetupRoutes mounts. Results, Violations and
// Metrics are optional.
type Handlers struct {
	Transactions *handlers.TransactionHandler
	Health       *handlers.HealthHandler
	Results      *handlers.ResultHandler
	Violations   *handlers.ViolationHandler
	Metrics      http.Handler
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Fraud decision gateway",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", h.Health.Health)
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.Metrics))
	}

	api := app.Group("/api")
	api.Post("/transactions", h.Transactions.ProcessTransaction)

	if h.Results != nil {
		results := api.Group("/results")
		results.Get("/", h.Results.ListResults)
		results.Get("/:id", h.Results.GetResult)
	}
	if h.Violations != nil {
		api.Get("/violations", h.Violations.ListViolations)
	}
}
