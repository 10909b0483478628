package debit

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mushxhid/Accounting-sub000/internal/audit"
	"github.com/mushxhid/Accounting-sub000/internal/auth"
	"github.com/mushxhid/Accounting-sub000/internal/fx"
	"github.com/mushxhid/Accounting-sub000/internal/ledger"
	"github.com/mushxhid/Accounting-sub000/internal/money"
	"github.com/mushxhid/Accounting-sub000/internal/realtime"
)

type Handler struct {
	Repo     *Repository
	Ledger   *ledger.Service
	FX       *fx.Service
	Notifier *audit.Notifier
	Hub      *realtime.Hub
}

func NewHandler(repo *Repository, svc *ledger.Service, fxs *fx.Service, notifier *audit.Notifier, hub *realtime.Hub) *Handler {
	return &Handler{Repo: repo, Ledger: svc, FX: fxs, Notifier: notifier, Hub: hub}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}
	uid, email, err := auth.UserFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req CreateDebitRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	req.Source = strings.TrimSpace(req.Source)
	if req.Source == "" {
		return fiber.NewError(fiber.StatusBadRequest, "source required")
	}
	if err := money.ValidatePositive(req.AmountLocal); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "amount_local must be greater than zero")
	}
	receivedOn, err := time.Parse("2006-01-02", req.ReceivedOn)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "received_on must be YYYY-MM-DD")
	}

	rate := h.FX.Rate(c.UserContext())
	usd, err := money.ToUSD(req.AmountLocal, rate)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no usable exchange rate")
	}

	bal, err := h.Ledger.Balance.Current(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load balance: "+err.Error())
	}

	d := &Debit{
		OrgID:           orgID,
		AmountLocal:     req.AmountLocal,
		AmountUSD:       usd,
		Source:          req.Source,
		ReceivedOn:      receivedOn,
		Description:     strings.TrimSpace(req.Description),
		BalanceAfterUSD: bal.CurrentUSD.Add(usd),
		CreatedBy:       email,
	}

	id, err := h.Repo.Insert(c.UserContext(), d)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to add income: "+err.Error())
	}

	if err := h.Ledger.Balance.Adjust(c.UserContext(), orgID, usd); err != nil {
		// The record landed but the balance write failed: a documented
		// inconsistency window, repaired by the explicit balance update.
		return fiber.NewError(fiber.StatusInternalServerError, "income recorded but balance update failed")
	}

	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionCreate, "debit", audit.Actor{ID: uid, Email: email}, audit.RecordDetail{
		EntityID:    id,
		Name:        req.Source,
		AmountLocal: req.AmountLocal,
		AmountUSD:   usd,
	}))
	h.publish(c, orgID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "income added"})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}
	uid, email, err := auth.UserFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	deleted, err := h.Repo.Delete(c.UserContext(), orgID, c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "income not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete income: "+err.Error())
	}

	if err := h.Ledger.Balance.Adjust(c.UserContext(), orgID, deleted.DeleteReversalUSD()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "income deleted but balance update failed")
	}

	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionDelete, "debit", audit.Actor{ID: uid, Email: email}, audit.RecordDetail{
		EntityID:    deleted.ID,
		Name:        deleted.Source,
		AmountLocal: deleted.AmountLocal,
		AmountUSD:   deleted.AmountUSD,
	}))
	h.publish(c, orgID)

	return c.JSON(fiber.Map{"message": "income deleted"})
}

// List returns the org's income records newest-first. The balance-after
// column comes from the shared ledger walk, not the stored snapshots.
func (h *Handler) List(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}

	items, err := h.Repo.ListByOrg(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list income: "+err.Error())
	}

	balances, err := h.Ledger.BalancesFor(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute balances: "+err.Error())
	}
	for i := range items {
		if after, ok := balances[items[i].ID]; ok {
			items[i].BalanceAfterUSD = after.USD
		}
	}

	return c.JSON(items)
}

func (h *Handler) publish(c *fiber.Ctx, orgID string) {
	items, err := h.Repo.ListByOrg(c.UserContext(), orgID)
	if err != nil {
		return
	}
	h.Hub.Publish(orgID, "debits", items)

	if bal, err := h.Ledger.Balance.Current(c.UserContext(), orgID); err == nil {
		h.Hub.Publish(orgID, "balance", fiber.Map{
			"current_usd": money.FormatUSD(bal.CurrentUSD),
			"updated_at":  bal.UpdatedAt,
		})
	}
}
