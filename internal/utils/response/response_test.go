package response

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error { return Success(c, "found", []string{"a"}) })
	app.Get("/empty", func(c *fiber.Ctx) error { return Success(c, "found", nil) })
	app.Get("/bad", func(c *fiber.Ctx) error { return BadRequest(c, "nameOrig is required") })
	app.Get("/missing", func(c *fiber.Ctx) error { return NotFound(c, "not found") })
	app.Get("/down", func(c *fiber.Ctx) error { return ServerError(c, "db down") })
	app.Get("/raw", func(c *fiber.Ctx) error { return Raw(c, 202, map[string]int{"n": 1}) })

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/ok", 200, `{"message":"found","data":["a"]}`},
		{"/empty", 200, `{"message":"found","data":null}`},
		{"/bad", 400, `{"error":"nameOrig is required"}`},
		{"/missing", 404, `{"error":"not found"}`},
		{"/down", 500, `{"error":"db down"}`},
		{"/raw", 202, `{"n":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.JSONEq(t, tt.body, string(body))
		})
	}
}
