package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds page/limit query parameters and the derived offset.
type Pagination struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// FromQuery reads ?page= and ?limit=, falling back to defaults on bad input
// and capping limit at maxLimit.
func FromQuery(c *fiber.Ctx, defaultLimit, maxLimit int) Pagination {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func NewPaginatedResponse(data interface{}, p Pagination) PaginatedResponse {
	return PaginatedResponse{
		Data:       data,
		Pagination: p,
	}
}
