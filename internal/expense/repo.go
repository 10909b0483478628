package expense

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mushxhid/Accounting-sub000/internal/ledger"
)

var ErrNotFound = errors.New("expense not found")

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const columns = `id, org_id, name, amount_local, amount_usd, account_number, contact_id, spent_on, description, receipt_url, balance_after_usd, created_by, updated_by, created_at, updated_at`

func (r *Repository) scanRow(row interface{ Scan(...any) error }, e *Expense) error {
	return row.Scan(&e.ID, &e.OrgID, &e.Name, &e.AmountLocal, &e.AmountUSD, &e.AccountNumber, &e.ContactID,
		&e.SpentOn, &e.Description, &e.ReceiptURL, &e.BalanceAfterUSD, &e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt)
}

func (r *Repository) Insert(ctx context.Context, e *Expense) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO expenses (org_id, name, amount_local, amount_usd, account_number, contact_id, spent_on, description, receipt_url, balance_after_usd, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING id
	`, e.OrgID, e.Name, e.AmountLocal, e.AmountUSD, e.AccountNumber, e.ContactID, e.SpentOn, e.Description,
		e.ReceiptURL, e.BalanceAfterUSD, e.CreatedBy).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) Update(ctx context.Context, e *Expense) error {
	ct, err := r.Pool.Exec(ctx, `
		UPDATE expenses
		SET name = $3, amount_local = $4, amount_usd = $5, account_number = $6, contact_id = $7,
		    spent_on = $8, description = $9, receipt_url = $10, updated_by = $11, updated_at = now()
		WHERE id = $1 AND org_id = $2
	`, e.ID, e.OrgID, e.Name, e.AmountLocal, e.AmountUSD, e.AccountNumber, e.ContactID,
		e.SpentOn, e.Description, e.ReceiptURL, e.UpdatedBy)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, orgID, id string) (*Expense, error) {
	var e Expense
	row := r.Pool.QueryRow(ctx, `SELECT `+columns+` FROM expenses WHERE id = $1 AND org_id = $2`, id, orgID)
	if err := r.scanRow(row, &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Delete(ctx context.Context, orgID, id string) (*Expense, error) {
	existing, err := r.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	ct, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return existing, nil
}

func (r *Repository) ListByOrg(ctx context.Context, orgID string) ([]Expense, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+columns+` FROM expenses WHERE org_id = $1 ORDER BY spent_on DESC, created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Expense, 0)
	for rows.Next() {
		var e Expense
		if err := r.scanRow(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
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
	for _, e := range items {
		txs = append(txs, e.LedgerTransaction())
	}
	return txs, nil
}
