package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAdminNotFound = errors.New("admin not found")

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := r.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, org_id, created_at, last_seen_at
		FROM admins
		WHERE lower(email) = lower($1)
	`, strings.TrimSpace(email)).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.OrgID, &a.CreatedAt, &a.LastSeenAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) Insert(ctx context.Context, email, passwordHash, orgID string) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO admins (email, password_hash, org_id)
		VALUES (lower($1), $2, $3)
		RETURNING id
	`, strings.TrimSpace(email), passwordHash, orgID).Scan(&id)
	return id, err
}

// TouchLastSeen is best-effort; callers fire it in a goroutine and ignore
// the result.
func (r *Repository) TouchLastSeen(uid string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _ = r.Pool.Exec(ctx, `UPDATE admins SET last_seen_at = now() WHERE id = $1::uuid`, uid)
}
