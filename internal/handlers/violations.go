package handlers

import (
	"context"
	"log/slog"

	"fraudguard/internal/models"
	"fraudguard/internal/utils/pagination"
	"fraudguard/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// ViolationLister reads archived declines back out of the violation archive.
type ViolationLister interface {
	ListByParties(ctx context.Context, nameOrig, nameDest string, limit, offset int) ([]models.Violation, error)
}

type ViolationHandler struct {
	violations ViolationLister
	log        *slog.Logger
}

func NewViolationHandler(violations ViolationLister, log *slog.Logger) *ViolationHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ViolationHandler{violations: violations, log: log}
}

// ListViolations returns the declines archived for an originator, optionally
// narrowed to one destination.
func (h *ViolationHandler) ListViolations(c *fiber.Ctx) error {
	nameOrig := c.Query("nameOrig")
	if nameOrig == "" {
		return response.BadRequest(c, "nameOrig query parameter is required")
	}
	nameDest := c.Query("nameDest")
	p := pagination.FromQuery(c, defaultResultLimit, maxResultLimit)

	violations, err := h.violations.ListByParties(c.UserContext(), nameOrig, nameDest, p.Limit, p.Offset)
	if err != nil {
		h.log.Error("violation_list_failed",
			slog.String("name_orig", nameOrig),
			slog.String("name_dest", nameDest),
			slog.Any("err", err))
		return response.ServerError(c, "Failed to retrieve violations")
	}
	return c.JSON(pagination.NewPaginatedResponse(violations, p))
}
