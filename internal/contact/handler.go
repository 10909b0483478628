package contact

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/mushxhid/Accounting-sub000/internal/audit"
	"github.com/mushxhid/Accounting-sub000/internal/auth"
	"github.com/mushxhid/Accounting-sub000/internal/realtime"
)

type Handler struct {
	Repo     *Repository
	Notifier *audit.Notifier
	Hub      *realtime.Hub
}

func NewHandler(repo *Repository, notifier *audit.Notifier, hub *realtime.Hub) *Handler {
	return &Handler{Repo: repo, Notifier: notifier, Hub: hub}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	orgID, uid, email, err := identity(c)
	if err != nil {
		return err
	}

	var req UpsertContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}

	id, err := h.Repo.Insert(c.UserContext(), &Contact{
		OrgID:         orgID,
		Name:          req.Name,
		AccountNumber: strings.TrimSpace(req.AccountNumber),
		Description:   req.Description,
		CreatedBy:     email,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to add contact: "+err.Error())
	}

	h.notify(orgID, audit.ActionCreate, uid, email, id, req.Name)
	h.publish(c, orgID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "contact added"})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	orgID, uid, email, err := identity(c)
	if err != nil {
		return err
	}

	var req UpsertContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}

	id := c.Params("id")
	if err := h.Repo.Update(c.UserContext(), orgID, id, req, email); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "contact not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update contact: "+err.Error())
	}

	h.notify(orgID, audit.ActionUpdate, uid, email, id, req.Name)
	h.publish(c, orgID)

	return c.JSON(fiber.Map{"message": "contact updated"})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	orgID, uid, email, err := identity(c)
	if err != nil {
		return err
	}

	deleted, err := h.Repo.Delete(c.UserContext(), orgID, c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "contact not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete contact: "+err.Error())
	}

	h.notify(orgID, audit.ActionDelete, uid, email, deleted.ID, deleted.Name)
	h.publish(c, orgID)

	return c.JSON(fiber.Map{"message": "contact deleted"})
}

func (h *Handler) List(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}

	items, err := h.Repo.ListByOrg(c.UserContext(), orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list contacts: "+err.Error())
	}
	return c.JSON(items)
}

func (h *Handler) notify(orgID string, action audit.Action, uid, email, id, name string) {
	h.Notifier.Record(orgID, audit.NewEvent(action, "contact", audit.Actor{ID: uid, Email: email}, audit.RecordDetail{
		EntityID:    id,
		Name:        name,
		AmountLocal: decimal.Zero,
		AmountUSD:   decimal.Zero,
	}))
}

func (h *Handler) publish(c *fiber.Ctx, orgID string) {
	items, err := h.Repo.ListByOrg(c.UserContext(), orgID)
	if err != nil {
		return
	}
	h.Hub.Publish(orgID, "contacts", items)
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
