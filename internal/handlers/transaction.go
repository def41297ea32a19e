package handlers

import (
	"context"

	"fraudguard/internal/services/decision"
	"fraudguard/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// DecisionHeader carries Approved/Declined alongside the JSON body.
const DecisionHeader = "X-Fraud-Decision"

// Decider is the hot-path decision service.
type Decider interface {
	Decide(ctx context.Context, raw []byte) decision.Response
}

type TransactionHandler struct {
	decider Decider
}

func NewTransactionHandler(decider Decider) *TransactionHandler {
	return &TransactionHandler{
		decider: decider,
	}
}

// ProcessTransaction passes the raw body through and writes back the decision.
func (h *TransactionHandler) ProcessTransaction(c *fiber.Ctx) error {
	resp := h.decider.Decide(c.UserContext(), c.Body())
	if resp.Decision != "" {
		c.Set(DecisionHeader, resp.Decision)
	}
	return response.Raw(c, resp.Status, resp.Body)
}
