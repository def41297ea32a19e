package handlers

import (
	"errors"
	"log/slog"

	"fraudguard/internal/repositories"
	"fraudguard/internal/utils/pagination"
	"fraudguard/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultResultLimit = 20
	maxResultLimit     = 100 // Maximum allowed results per page
)

// ResultHandler is a read-only view of the result store.
type ResultHandler struct {
	results repositories.ResultRepository
	log     *slog.Logger
}

func NewResultHandler(results repositories.ResultRepository, log *slog.Logger) *ResultHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ResultHandler{results: results, log: log}
}

func (h *ResultHandler) GetResult(c *fiber.Ctx) error {
	result, err := h.results.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return response.NotFound(c, "Scored transaction not found")
		}
		h.log.Error("result_lookup_failed", slog.String("id", c.Params("id")), slog.Any("err", err))
		return response.ServerError(c, "Failed to retrieve scored transaction")
	}
	return response.Success(c, "Scored transaction retrieved successfully", result)
}

// ListResults lists the results of one originator, newest first.
func (h *ResultHandler) ListResults(c *fiber.Ctx) error {
	nameOrig := c.Query("nameOrig")
	if nameOrig == "" {
		return response.BadRequest(c, "nameOrig query parameter is required")
	}
	p := pagination.FromQuery(c, defaultResultLimit, maxResultLimit)

	results, err := h.results.ListByOriginator(c.UserContext(), nameOrig, p.Limit, p.Offset)
	if err != nil {
		h.log.Error("result_list_failed", slog.String("name_orig", nameOrig), slog.Any("err", err))
		return response.ServerError(c, "Failed to retrieve scored transactions")
	}
	return c.JSON(pagination.NewPaginatedResponse(results, p))
}
