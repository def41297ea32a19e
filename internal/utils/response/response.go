// Package response writes the JSON envelopes of the read API.
package response

import (
	"github.com/gofiber/fiber/v2"
)

// Payload wraps a successful lookup.
type Payload struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorBody has the same shape as the gateway's error responses.
type ErrorBody struct {
	Error string `json:"error"`
}

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Payload{Message: message, Data: data})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorBody{Error: message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// Raw writes an already-shaped status/body pair.
func Raw(c *fiber.Ctx, status int, body interface{}) error {
	return c.Status(status).JSON(body)
}
