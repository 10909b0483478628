package loan

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
	orgID, uid, email, err := identity(c)
	if err != nil {
		return err
	}

	var req CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	req.PartnerName = strings.TrimSpace(req.PartnerName)
	if req.PartnerName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "partner_name required")
	}
	if err := money.ValidatePositive(req.AmountLocal); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "amount_local must be greater than zero")
	}
	issuedOn, err := time.Parse("2006-01-02", req.IssuedOn)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "issued_on must be YYYY-MM-DD")
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

	l := &Loan{
		OrgID:           orgID,
		PartnerName:     req.PartnerName,
		PrincipalLocal:  req.AmountLocal,
		PrincipalUSD:    usd,
		IssuedOn:        issuedOn,
		Description:     strings.TrimSpace(req.Description),
		BalanceAfterUSD: bal.CurrentUSD.Sub(usd),
		CreatedBy:       email,
	}

	id, err := h.Repo.Insert(c.UserContext(), l)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to add loan: "+err.Error())
	}

	if err := h.Ledger.Balance.Adjust(c.UserContext(), orgID, usd.Neg()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "loan recorded but balance update failed")
	}

	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionCreate, "loan", audit.Actor{ID: uid, Email: email}, audit.RecordDetail{
		EntityID:    id,
		Name:        req.PartnerName,
		AmountLocal: req.AmountLocal,
		AmountUSD:   usd,
	}))
	h.publish(c, orgID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "loan added"})
}

// Repay applies a repayment to a loan. Validation happens inside the same
// transaction that mutates the loan, so an over-repayment is rejected with
// no state change at all.
func (h *Handler) Repay(c *fiber.Ctx) error {
	orgID, uid, email, err := identity(c)
	if err != nil {
		return err
	}

	var req RepayRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := money.ValidatePositive(req.AmountLocal); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "amount_local must be greater than zero")
	}
	paidOn, err := time.Parse("2006-01-02", req.PaidOn)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "paid_on must be YYYY-MM-DD")
	}

	rate := h.FX.Rate(c.UserContext())
	usd, err := money.ToUSD(req.AmountLocal, rate)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "no usable exchange rate")
	}

	loanID := c.Params("id")
	rep, err := h.Repo.Repay(c.UserContext(), orgID, loanID, req.AmountLocal, usd, paidOn, strings.TrimSpace(req.Description), email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(fiber.StatusNotFound, "loan not found")
		case errors.Is(err, ErrRepaymentExceedsOutstanding):
			return fiber.NewError(fiber.StatusBadRequest, "repayment exceeds outstanding amount")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to apply repayment: "+err.Error())
		}
	}

	// Money coming back in raises the balance.
	if err := h.Ledger.Balance.Adjust(c.UserContext(), orgID, usd); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "repayment recorded but balance update failed")
	}

	detail := audit.RepaymentDetail{
		LoanID:      loanID,
		RepaymentID: rep.ID,
		AmountLocal: req.AmountLocal,
		AmountUSD:   usd,
	}
	if updated, err := h.Repo.Get(c.UserContext(), orgID, loanID); err == nil {
		detail.PartnerName = updated.PartnerName
		detail.OutstandingLocal = updated.OutstandingLocal
	}
	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionRepayment, "loan", audit.Actor{ID: uid, Email: email}, detail))
	h.publish(c, orgID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": rep.ID, "message": "repayment applied"})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	orgID, uid, email, err := identity(c)
	if err != nil {
		return err
	}

	deleted, err := h.Repo.Delete(c.UserContext(), orgID, c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "loan not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete loan: "+err.Error())
	}

	if err := h.Ledger.Balance.Adjust(c.UserContext(), orgID, deleted.DeleteReversalUSD()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "loan deleted but balance update failed")
	}

	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionDelete, "loan", audit.Actor{ID: uid, Email: email}, audit.RecordDetail{
		EntityID:    deleted.ID,
		Name:        deleted.PartnerName,
		AmountLocal: deleted.OutstandingLocal,
		AmountUSD:   deleted.OutstandingUSD,
	}))
	h.publish(c, orgID)

	return c.JSON(fiber.Map{"message": "loan deleted"})
}

// List returns the org's loans newest-first, repayments included, with
// balance-after values from the shared ledger walk.
func (h *Handler) List(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}

	items, err := h.Repo.ListByOrg(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list loans: "+err.Error())
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
	h.Hub.Publish(orgID, "loans", items)

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
