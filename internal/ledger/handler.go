package ledger

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mushxhid/Accounting-sub000/internal/auth"
	"github.com/mushxhid/Accounting-sub000/internal/money"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// GetBalance returns the stored balance alongside the ledger-walk total so
// the client can surface drift.
func (h *Handler) GetBalance(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}

	walk, stored, drifted, err := h.Service.CheckDrift(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute balance: "+err.Error())
	}

	bal, err := h.Service.Balance.Current(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load balance: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"current_usd": money.FormatUSD(stored),
		"ledger_usd":  money.FormatUSD(walk),
		"drift":       drifted,
		"updated_at":  bal.UpdatedAt,
	})
}

// UpdateBalance is the sanctioned repair path: the singleton is set to the
// walk total, historical per-record snapshots stay as they were.
func (h *Handler) UpdateBalance(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}

	walk, err := h.Service.Repair(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update balance: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"message":     "balance updated",
		"current_usd": money.FormatUSD(walk),
	})
}
