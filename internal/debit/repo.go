package debit

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mushxhid/Accounting-sub000/internal/ledger"
)

var ErrNotFound = errors.New("debit not found")

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const columns = `id, org_id, amount_local, amount_usd, source, received_on, description, balance_after_usd, created_by, updated_by, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, d *Debit) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO debits (org_id, amount_local, amount_usd, source, received_on, description, balance_after_usd, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`, d.OrgID, d.AmountLocal, d.AmountUSD, d.Source, d.ReceivedOn, d.Description, d.BalanceAfterUSD, d.CreatedBy).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) Get(ctx context.Context, orgID, id string) (*Debit, error) {
	var d Debit
	err := r.Pool.QueryRow(ctx, `SELECT `+columns+` FROM debits WHERE id = $1 AND org_id = $2`, id, orgID).
		Scan(&d.ID, &d.OrgID, &d.AmountLocal, &d.AmountUSD, &d.Source, &d.ReceivedOn, &d.Description,
			&d.BalanceAfterUSD, &d.CreatedBy, &d.UpdatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Delete removes the record and returns it so the caller can reverse its
// balance effect.
func (r *Repository) Delete(ctx context.Context, orgID, id string) (*Debit, error) {
	existing, err := r.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	ct, err := r.Pool.Exec(ctx, `DELETE FROM debits WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return existing, nil
}

func (r *Repository) ListByOrg(ctx context.Context, orgID string) ([]Debit, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+columns+` FROM debits WHERE org_id = $1 ORDER BY received_on DESC, created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Debit, 0)
	for rows.Next() {
		var d Debit
		if err := rows.Scan(&d.ID, &d.OrgID, &d.AmountLocal, &d.AmountUSD, &d.Source, &d.ReceivedOn, &d.Description,
			&d.BalanceAfterUSD, &d.CreatedBy, &d.UpdatedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// LedgerTransactions implements ledger.TxSource.
func (r *Repository) LedgerTransactions(ctx context.Context, orgID string) ([]ledger.Transaction, error) {
	items, err := r.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	txs := make([]ledger.Transaction, 0, len(items))
	for _, d := range items {
		txs = append(txs, d.LedgerTransaction())
	}
	return txs, nil
}
