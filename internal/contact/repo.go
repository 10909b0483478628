package contact

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("contact not found")

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

func (r *Repository) Insert(ctx context.Context, c *Contact) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO contacts (org_id, name, account_number, description, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`, c.OrgID, c.Name, c.AccountNumber, c.Description, c.CreatedBy).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) Update(ctx context.Context, orgID, id string, req UpsertContactRequest, updatedBy string) error {
	ct, err := r.Pool.Exec(ctx, `
		UPDATE contacts
		SET name = $3, account_number = $4, description = $5, updated_by = $6, updated_at = now()
		WHERE id = $1 AND org_id = $2
	`, id, orgID, req.Name, req.AccountNumber, req.Description, updatedBy)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, orgID, id string) (*Contact, error) {
	existing, err := r.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	ct, err := r.Pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return existing, nil
}

func (r *Repository) Get(ctx context.Context, orgID, id string) (*Contact, error) {
	var c Contact
	err := r.Pool.QueryRow(ctx, `
		SELECT id, org_id, name, account_number, description, created_by, updated_by, created_at, updated_at
		FROM contacts
		WHERE id = $1 AND org_id = $2
	`, id, orgID).Scan(&c.ID, &c.OrgID, &c.Name, &c.AccountNumber, &c.Description, &c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListByOrg(ctx context.Context, orgID string) ([]Contact, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, org_id, name, account_number, description, created_by, updated_by, created_at, updated_at
		FROM contacts
		WHERE org_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Contact, 0)
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.OrgID, &c.Name, &c.AccountNumber, &c.Description, &c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
