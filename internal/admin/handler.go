package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mushxhid/Accounting-sub000/internal/audit"
	"github.com/mushxhid/Accounting-sub000/internal/auth"
	"github.com/mushxhid/Accounting-sub000/internal/ledger"
	"github.com/mushxhid/Accounting-sub000/internal/money"
	"github.com/mushxhid/Accounting-sub000/internal/realtime"
	"github.com/mushxhid/Accounting-sub000/internal/store"
)

// Handler exposes the destructive org-level operations: full reset and the
// one-way legacy data migration.
type Handler struct {
	Pool     *pgxpool.Pool
	Ledger   *ledger.Service
	Notifier *audit.Notifier
	Hub      *realtime.Hub
}

func NewHandler(pool *pgxpool.Pool, svc *ledger.Service, notifier *audit.Notifier, hub *realtime.Hub) *Handler {
	return &Handler{Pool: pool, Ledger: svc, Notifier: notifier, Hub: hub}
}

// Reset wipes every collection of the caller's org and zeroes the balance.
// The caller must echo their org id in ?confirm= — a deliberate speed bump
// in front of an irreversible bulk delete.
func (h *Handler) Reset(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}
	if c.Query("confirm") != orgID {
		return fiber.NewError(fiber.StatusBadRequest, "confirmation required: pass confirm=<org id>")
	}

	if err := store.ClearOrganization(c.UserContext(), h.Pool, orgID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to reset organization: "+err.Error())
	}

	uid, email, _ := auth.UserFromCtx(c)
	h.Notifier.Record(orgID, audit.NewEvent(audit.ActionDelete, "organization", audit.Actor{ID: uid, Email: email}, nil))

	for _, collection := range []string{"expenses", "debits", "loans", "contacts"} {
		h.Hub.Publish(orgID, collection, []struct{}{})
	}
	h.Hub.Publish(orgID, "balance", fiber.Map{"current_usd": "0.00"})

	return c.JSON(fiber.Map{"message": "organization reset"})
}

// MigrateLegacy copies the caller's records from the deprecated per-user
// layout into the shared org layout, then recomputes the org balance from
// the migrated ledger.
func (h *Handler) MigrateLegacy(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}
	uid, email, err := auth.UserFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	migrated, err := store.MigrateLegacy(c.UserContext(), h.Pool, orgID, uid, email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "legacy migration failed: "+err.Error())
	}
	if migrated == 0 {
		return c.JSON(fiber.Map{"message": "nothing migrated", "rows": 0})
	}

	walk, err := h.Ledger.Repair(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "migrated but failed to recompute balance: "+err.Error())
	}

	return c.JSON(fiber.Map{
		"message":     "legacy data migrated",
		"rows":        migrated,
		"current_usd": money.FormatUSD(walk),
	})
}
