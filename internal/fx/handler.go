package fx

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mushxhid/Accounting-sub000/internal/money"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) GetRate(c *fiber.Ctx) error {
	rate := h.Service.Rate(c.UserContext())
	_, fetchedAt, fallback := h.Service.Snapshot()
	return c.JSON(fiber.Map{
		"rate":       money.FormatRate(rate),
		"fetched_at": fetchedAt,
		"fallback":   fallback,
	})
}

// RefreshRate backs the manual "Refresh Rate" action.
func (h *Handler) RefreshRate(c *fiber.Ctx) error {
	rate := h.Service.Refresh(c.UserContext())
	_, fetchedAt, fallback := h.Service.Snapshot()
	return c.JSON(fiber.Map{
		"rate":       money.FormatRate(rate),
		"fetched_at": fetchedAt,
		"fallback":   fallback,
	})
}
