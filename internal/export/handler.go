package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mushxhid/Accounting-sub000/internal/audit"
	"github.com/mushxhid/Accounting-sub000/internal/auth"
	"github.com/mushxhid/Accounting-sub000/internal/contact"
	"github.com/mushxhid/Accounting-sub000/internal/debit"
	"github.com/mushxhid/Accounting-sub000/internal/expense"
	"github.com/mushxhid/Accounting-sub000/internal/ledger"
	"github.com/mushxhid/Accounting-sub000/internal/loan"
	"github.com/mushxhid/Accounting-sub000/internal/money"
)

type Handler struct {
	Expenses *expense.Repository
	Debits   *debit.Repository
	Loans    *loan.Repository
	Contacts *contact.Repository
	Ledger   *ledger.Service
	Notifier *audit.Notifier
}

func NewHandler(expenses *expense.Repository, debits *debit.Repository, loans *loan.Repository,
	contacts *contact.Repository, svc *ledger.Service, notifier *audit.Notifier) *Handler {
	return &Handler{Expenses: expenses, Debits: debits, Loans: loans, Contacts: contacts, Ledger: svc, Notifier: notifier}
}

// dateRange parses optional ?from= and ?to= filters.
func dateRange(c *fiber.Ctx) (from, to time.Time, err error) {
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
	}
	return from, to, nil
}

func inRange(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// CSV streams one collection as a CSV attachment. The Balance After column
// always comes from the shared ledger walk.
func (h *Handler) CSV(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}
	uid, email, err := auth.UserFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	collection := c.Params("collection")
	balances, err := h.Ledger.BalancesFor(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to compute balances: "+err.Error())
	}

	var header []string
	var rows [][]string

	switch collection {
	case "expenses":
		items, err := h.Expenses.ListByOrg(c.UserContext(), orgID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list expenses: "+err.Error())
		}
		header = []string{"Date", "Name", "Account Number", "Amount (PKR)", "Amount (USD)", "Description", "Balance After (USD)"}
		for _, e := range items {
			if !inRange(e.SpentOn, from, to) {
				continue
			}
			rows = append(rows, []string{
				e.SpentOn.Format("2006-01-02"), e.Name, e.AccountNumber,
				money.FormatLocal(e.AmountLocal), money.FormatUSD(e.AmountUSD),
				e.Description, money.FormatUSD(balances[e.ID].USD),
			})
		}

	case "debits":
		items, err := h.Debits.ListByOrg(c.UserContext(), orgID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list income: "+err.Error())
		}
		header = []string{"Date", "Source", "Amount (PKR)", "Amount (USD)", "Description", "Balance After (USD)"}
		for _, d := range items {
			if !inRange(d.ReceivedOn, from, to) {
				continue
			}
			rows = append(rows, []string{
				d.ReceivedOn.Format("2006-01-02"), d.Source,
				money.FormatLocal(d.AmountLocal), money.FormatUSD(d.AmountUSD),
				d.Description, money.FormatUSD(balances[d.ID].USD),
			})
		}

	case "loans":
		items, err := h.Loans.ListByOrg(c.UserContext(), orgID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list loans: "+err.Error())
		}
		header = []string{"Date", "Partner", "Principal (PKR)", "Outstanding (PKR)", "Repaid (PKR)", "Description", "Balance After (USD)"}
		for _, l := range items {
			if !inRange(l.IssuedOn, from, to) {
				continue
			}
			rows = append(rows, []string{
				l.IssuedOn.Format("2006-01-02"), l.PartnerName,
				money.FormatLocal(l.PrincipalLocal), money.FormatLocal(l.OutstandingLocal),
				money.FormatLocal(l.PrincipalLocal.Sub(l.OutstandingLocal)),
				l.Description, money.FormatUSD(balances[l.ID].USD),
			})
		}

	case "contacts":
		items, err := h.Contacts.ListByOrg(c.UserContext(), orgID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list contacts: "+err.Error())
		}
		header = []string{"Name", "Account Number", "Description"}
		for _, ct := range items {
			desc := ""
			if ct.Description != nil {
				desc = *ct.Description
			}
			rows = append(rows, []string{ct.Name, ct.AccountNumber, desc})
		}

	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown collection")
	}

	data, err := BuildCSV(header, rows)
	if err != nil {
		if errors.Is(err, ErrNoRecords) {
			// Deliberately not a file: the client shows a notice instead.
			return fiber.NewError(fiber.StatusNotFound, "no records to export")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build csv: "+err.Error())
	}

	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionExport, collection, audit.Actor{ID: uid, Email: email}, audit.ExportDetail{
		Collection: collection,
		Rows:       len(rows),
		Format:     "csv",
	}))

	filename := fmt.Sprintf("%s_%s.csv", collection, time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// Statement renders the merged ledger walk as a PDF.
func (h *Handler) Statement(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}
	uid, email, err := auth.UserFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	txs, err := h.Ledger.Collect(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to collect ledger: "+err.Error())
	}
	if len(txs) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "no records to export")
	}

	data, err := BuildStatementPDF(txs)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build statement: "+err.Error())
	}

	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionExport, "statement", audit.Actor{ID: uid, Email: email}, audit.ExportDetail{
		Collection: "statement",
		Rows:       len(txs),
		Format:     "pdf",
	}))

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q",
		"statement_"+time.Now().Format("20060102")+".pdf"))
	return c.Send(data)
}
