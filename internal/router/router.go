package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mushxhid/Accounting-sub000/internal/admin"
	"github.com/mushxhid/Accounting-sub000/internal/audit"
	"github.com/mushxhid/Accounting-sub000/internal/auth"
	"github.com/mushxhid/Accounting-sub000/internal/contact"
	"github.com/mushxhid/Accounting-sub000/internal/debit"
	"github.com/mushxhid/Accounting-sub000/internal/expense"
	"github.com/mushxhid/Accounting-sub000/internal/export"
	"github.com/mushxhid/Accounting-sub000/internal/fx"
	"github.com/mushxhid/Accounting-sub000/internal/ledger"
	"github.com/mushxhid/Accounting-sub000/internal/loan"
	"github.com/mushxhid/Accounting-sub000/internal/realtime"
)

type Router struct {
	AuthHandler    *auth.Handler
	ExpenseHandler *expense.Handler
	DebitHandler   *debit.Handler
	LoanHandler    *loan.Handler
	ContactHandler *contact.Handler
	LedgerHandler  *ledger.Handler
	FxHandler      *fx.Handler
	AuditHandler   *audit.Handler
	ExportHandler  *export.Handler
	AdminHandler   *admin.Handler
	Hub            *realtime.Hub
	AuthMW         fiber.Handler
	WSGuard        fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	if r.AuthHandler != nil {
		app.Post("/api/auth/login", RateLimitAuth(), r.AuthHandler.Login)
		app.Get("/api/me", r.AuthMW, r.AuthHandler.Me)
	}

	if r.ExpenseHandler != nil {
		app.Post("/api/expenses", r.AuthMW, RateLimitWrite(), r.ExpenseHandler.Create)
		app.Get("/api/expenses", r.AuthMW, r.ExpenseHandler.List)
		app.Put("/api/expenses/:id", r.AuthMW, RateLimitWrite(), r.ExpenseHandler.Update)
		app.Delete("/api/expenses/:id", r.AuthMW, RateLimitWrite(), r.ExpenseHandler.Delete)
	}

	if r.DebitHandler != nil {
		app.Post("/api/debits", r.AuthMW, RateLimitWrite(), r.DebitHandler.Create)
		app.Get("/api/debits", r.AuthMW, r.DebitHandler.List)
		app.Delete("/api/debits/:id", r.AuthMW, RateLimitWrite(), r.DebitHandler.Delete)
	}

	if r.LoanHandler != nil {
		app.Post("/api/loans", r.AuthMW, RateLimitWrite(), r.LoanHandler.Create)
		app.Get("/api/loans", r.AuthMW, r.LoanHandler.List)
		app.Post("/api/loans/:id/repay", r.AuthMW, RateLimitWrite(), r.LoanHandler.Repay)
		app.Delete("/api/loans/:id", r.AuthMW, RateLimitWrite(), r.LoanHandler.Delete)
	}

	if r.ContactHandler != nil {
		app.Post("/api/contacts", r.AuthMW, RateLimitWrite(), r.ContactHandler.Create)
		app.Get("/api/contacts", r.AuthMW, r.ContactHandler.List)
		app.Put("/api/contacts/:id", r.AuthMW, RateLimitWrite(), r.ContactHandler.Update)
		app.Delete("/api/contacts/:id", r.AuthMW, RateLimitWrite(), r.ContactHandler.Delete)
	}

	if r.LedgerHandler != nil {
		app.Get("/api/balance", r.AuthMW, r.LedgerHandler.GetBalance)
		app.Post("/api/balance/update", r.AuthMW, RateLimitWrite(), r.LedgerHandler.UpdateBalance)
	}

	if r.FxHandler != nil {
		app.Get("/api/rate", r.AuthMW, r.FxHandler.GetRate)
		app.Post("/api/rate/refresh", r.AuthMW, r.FxHandler.RefreshRate)
	}

	if r.AuditHandler != nil {
		app.Get("/api/audit", r.AuthMW, r.AuditHandler.List)
	}

	if r.ExportHandler != nil {
		app.Get("/api/export/statement", r.AuthMW, r.ExportHandler.Statement)
		app.Get("/api/export/:collection", r.AuthMW, r.ExportHandler.CSV)
	}

	if r.AdminHandler != nil {
		app.Post("/api/admin/reset", r.AuthMW, RateLimitWrite(), r.AdminHandler.Reset)
		app.Post("/api/admin/migrate-legacy", r.AuthMW, RateLimitWrite(), r.AdminHandler.MigrateLegacy)
	}

	if r.Hub != nil && r.WSGuard != nil {
		app.Use("/ws", r.WSGuard)
		app.Get("/ws", realtime.Handler(r.Hub))
	}
}
