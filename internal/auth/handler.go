package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/mushxhid/Accounting-sub000/internal/logger"
)

type Handler struct {
	Repo   *Repository
	Gate   *Gate
	Secret []byte
}

func NewHandler(repo *Repository, gate *Gate, secret []byte) *Handler {
	return &Handler{Repo: repo, Gate: gate, Secret: secret}
}

// Login authenticates an admin. Identities outside the allow-list are
// rejected outright; no session is retained for them.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}

	if !h.Gate.Allowed(req.Email) {
		logger.Log.WithField("email", req.Email).Warn("login rejected: not on allow-list")
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}

	admin, err := h.Repo.GetByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "login failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	orgID := h.Gate.OrgFor(admin.Email)
	token, err := IssueToken(h.Secret, admin.ID, admin.Email, orgID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(LoginResponse{Token: token, OrgID: orgID, Email: admin.Email})
}

// Me echoes the authenticated identity.
func (h *Handler) Me(c *fiber.Ctx) error {
	id, email, err := UserFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	orgID, _ := OrgIDFromCtx(c)
	return c.JSON(fiber.Map{
		"id":     id,
		"email":  email,
		"org_id": orgID,
	})
}
