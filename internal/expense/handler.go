package expense

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

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

func (h *Handler) validate(req *UpsertExpenseRequest) (time.Time, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "name required")
	}
	if err := money.ValidatePositive(req.AmountLocal); err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "amount_local must be greater than zero")
	}
	if req.ContactID != nil {
		if _, err := uuid.Parse(*req.ContactID); err != nil {
			return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "contact_id must be a uuid")
		}
	}
	spentOn, err := time.Parse("2006-01-02", req.SpentOn)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "spent_on must be YYYY-MM-DD")
	}
	return spentOn, nil
}

func (h *Handler) Create(c *fiber.Ctx) error {
	orgID, uid, email, err := identity(c)
	if err != nil {
		return err
	}

	var req UpsertExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	spentOn, err := h.validate(&req)
	if err != nil {
		return err
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

	e := &Expense{
		OrgID:           orgID,
		Name:            req.Name,
		AmountLocal:     req.AmountLocal,
		AmountUSD:       usd,
		AccountNumber:   strings.TrimSpace(req.AccountNumber),
		ContactID:       req.ContactID,
		SpentOn:         spentOn,
		Description:     strings.TrimSpace(req.Description),
		ReceiptURL:      req.ReceiptURL,
		BalanceAfterUSD: bal.CurrentUSD.Sub(usd),
		CreatedBy:       email,
	}

	id, err := h.Repo.Insert(c.UserContext(), e)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to add expense: "+err.Error())
	}

	if err := h.Ledger.Balance.Adjust(c.UserContext(), orgID, usd.Neg()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "expense recorded but balance update failed")
	}

	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionCreate, "expense", audit.Actor{ID: uid, Email: email}, audit.RecordDetail{
		EntityID:    id,
		Name:        req.Name,
		AmountLocal: req.AmountLocal,
		AmountUSD:   usd,
	}))
	h.publish(c, orgID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "expense added"})
}

// Update re-derives the USD amount at the current rate when the local amount
// changes and adjusts the org balance by the USD difference.
func (h *Handler) Update(c *fiber.Ctx) error {
	orgID, uid, email, err := identity(c)
	if err != nil {
		return err
	}

	var req UpsertExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	spentOn, err := h.validate(&req)
	if err != nil {
		return err
	}

	existing, err := h.Repo.Get(c.UserContext(), orgID, c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "expense not found")
	}

	usd := existing.AmountUSD
	if !req.AmountLocal.Equal(existing.AmountLocal) {
		rate := h.FX.Rate(c.UserContext())
		if usd, err = money.ToUSD(req.AmountLocal, rate); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "no usable exchange rate")
		}
	}

	updated := &Expense{
		ID:            existing.ID,
		OrgID:         orgID,
		Name:          req.Name,
		AmountLocal:   req.AmountLocal,
		AmountUSD:     usd,
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		ContactID:     req.ContactID,
		SpentOn:       spentOn,
		Description:   strings.TrimSpace(req.Description),
		ReceiptURL:    req.ReceiptURL,
		UpdatedBy:     email,
	}
	if err := h.Repo.Update(c.UserContext(), updated); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update expense: "+err.Error())
	}

	// Old effect was -oldUSD; new is -newUSD. Net adjustment: old - new.
	if delta := existing.AmountUSD.Sub(usd); !delta.IsZero() {
		if err := h.Ledger.Balance.Adjust(c.UserContext(), orgID, delta); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "expense updated but balance update failed")
		}
	}

	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionUpdate, "expense", audit.Actor{ID: uid, Email: email}, audit.RecordDetail{
		EntityID:    existing.ID,
		Name:        req.Name,
		AmountLocal: req.AmountLocal,
		AmountUSD:   usd,
	}))
	h.publish(c, orgID)

	return c.JSON(fiber.Map{"message": "expense updated"})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	orgID, uid, email, err := identity(c)
	if err != nil {
		return err
	}

	deleted, err := h.Repo.Delete(c.UserContext(), orgID, c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete expense: "+err.Error())
	}

	if err := h.Ledger.Balance.Adjust(c.UserContext(), orgID, deleted.DeleteReversalUSD()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "expense deleted but balance update failed")
	}

	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionDelete, "expense", audit.Actor{ID: uid, Email: email}, audit.RecordDetail{
		EntityID:    deleted.ID,
		Name:        deleted.Name,
		AmountLocal: deleted.AmountLocal,
		AmountUSD:   deleted.AmountUSD,
	}))
	h.publish(c, orgID)

	return c.JSON(fiber.Map{"message": "expense deleted"})
}

// List returns the org's expenses newest-first with balance-after values
// from the shared ledger walk.
func (h *Handler) List(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}

	items, err := h.Repo.ListByOrg(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list expenses: "+err.Error())
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
	h.Hub.Publish(orgID, "expenses", items)

	if bal, err := h.Ledger.Balance.Current(c.UserContext(), orgID); err == nil {
		h.Hub.Publish(orgID, "balance", fiber.Map{
			"current_usd": money.FormatUSD(bal.CurrentUSD),
			"updated_at":  bal.UpdatedAt,
		})
	}
}

func identity(c *fiber.Ctx) (orgID, uid, email string, err error) {
	orgID, err = auth.OrgIDFromCtx(c)
	if err != nil {
		return "", "", "", fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}
	uid, email, err = auth.UserFromCtx(c)
	if err != nil {
		return "", "", "", fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return orgID, uid, email, nil
}
