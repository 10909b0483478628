package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mushxhid/Accounting-sub000/internal/auth"
)

type LogEntry struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	Entity     string          `json:"entity"`
	ActorID    string          `json:"actor_id"`
	ActorEmail string          `json:"actor_email"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Handler struct {
	Pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Pool: pool}
}

// List returns the most recent audit entries for the caller's org.
func (h *Handler) List(c *fiber.Ctx) error {
	orgID, err := auth.OrgIDFromCtx(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing org")
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	entries, err := listEntries(c.UserContext(), h.Pool, orgID, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to list audit log: "+err.Error())
	}
	return c.JSON(entries)
}

func listEntries(ctx context.Context, pool *pgxpool.Pool, orgID string, limit int) ([]LogEntry, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, action, entity, actor_id, actor_email, detail, created_at
		FROM audit_logs
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LogEntry, 0, limit)
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Entity, &e.ActorID, &e.ActorEmail, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
