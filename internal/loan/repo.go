package loan

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mushxhid/Accounting-sub000/internal/ledger"
)

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const loanColumns = `id, org_id, partner_name, outstanding_local, outstanding_usd, principal_local, principal_usd, issued_on, description, balance_after_usd, created_by, updated_by, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, l *Loan) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx, `
		INSERT INTO loans (org_id, partner_name, outstanding_local, outstanding_usd, principal_local, principal_usd, issued_on, description, balance_after_usd, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`, l.OrgID, l.PartnerName, l.PrincipalLocal, l.PrincipalUSD, l.IssuedOn, l.Description, l.BalanceAfterUSD, l.CreatedBy).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repository) Get(ctx context.Context, orgID, id string) (*Loan, error) {
	var l Loan
	err := r.Pool.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 AND org_id = $2`, id, orgID).
		Scan(&l.ID, &l.OrgID, &l.PartnerName, &l.OutstandingLocal, &l.OutstandingUSD, &l.PrincipalLocal, &l.PrincipalUSD,
			&l.IssuedOn, &l.Description, &l.BalanceAfterUSD, &l.CreatedBy, &l.UpdatedBy, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	repayments, err := r.repaymentsFor(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	l.Repayments = repayments
	return &l, nil
}

// Delete removes the loan and, through the FK cascade, its repayments. The
// returned loan carries its repayments so the caller can reverse the net
// balance effect (outstanding USD).
func (r *Repository) Delete(ctx context.Context, orgID, id string) (*Loan, error) {
	existing, err := r.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	ct, err := r.Pool.Exec(ctx, `DELETE FROM loans WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return existing, nil
}

func (r *Repository) ListByOrg(ctx context.Context, orgID string) ([]Loan, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+loanColumns+` FROM loans WHERE org_id = $1 ORDER BY issued_on DESC, created_at DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Loan, 0)
	for rows.Next() {
		var l Loan
		if err := rows.Scan(&l.ID, &l.OrgID, &l.PartnerName, &l.OutstandingLocal, &l.OutstandingUSD, &l.PrincipalLocal, &l.PrincipalUSD,
			&l.IssuedOn, &l.Description, &l.BalanceAfterUSD, &l.CreatedBy, &l.UpdatedBy, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		repayments, err := r.repaymentsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Repayments = repayments
	}
	return out, nil
}

func (r *Repository) repaymentsFor(ctx context.Context, loanID string) ([]Repayment, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, loan_id, amount_local, amount_usd, paid_on, description, created_by, created_at, updated_at
		FROM loan_repayments
		WHERE loan_id = $1
		ORDER BY paid_on, created_at
	`, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Repayment, 0)
	for rows.Next() {
		var rep Repayment
		if err := rows.Scan(&rep.ID, &rep.LoanID, &rep.AmountLocal, &rep.AmountUSD, &rep.PaidOn, &rep.Description,
			&rep.CreatedBy, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// Repay applies a repayment in one transaction: the outstanding decrement
// and the repayment insert commit together, so two admins repaying the same
// loan concurrently can never overwrite each other's effect. The row lock on
// the loan makes the outstanding check race-free.
func (r *Repository) Repay(ctx context.Context, orgID, loanID string, amountLocal, amountUSD decimal.Decimal, paidOn time.Time, description, createdBy string) (*Repayment, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var outstandingLocal decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT outstanding_local FROM loans
		WHERE id = $1 AND org_id = $2
		FOR UPDATE
	`, loanID, orgID).Scan(&outstandingLocal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := ValidateRepayment(outstandingLocal, amountLocal); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE loans
		SET outstanding_local = outstanding_local - $3,
		    outstanding_usd = outstanding_usd - $4,
		    updated_by = $5,
		    updated_at = now()
		WHERE id = $1 AND org_id = $2
	`, loanID, orgID, amountLocal, amountUSD, createdBy)
	if err != nil {
		return nil, err
	}

	rep := &Repayment{
		LoanID:      loanID,
		AmountLocal: amountLocal,
		AmountUSD:   amountUSD,
		PaidOn:      paidOn,
		Description: description,
		CreatedBy:   createdBy,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO loan_repayments (loan_id, amount_local, amount_usd, paid_on, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, loanID, amountLocal, amountUSD, paidOn, description, createdBy).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rep, nil
}

// LedgerTransactions implements ledger.TxSource: each loan contributes its
// issuance plus every repayment.
func (r *Repository) LedgerTransactions(ctx context.Context, orgID string) ([]ledger.Transaction, error) {
	loans, err := r.ListByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	var txs []ledger.Transaction
	for _, l := range loans {
		txs = append(txs, l.LedgerTransactions()...)
	}
	return txs, nil
}
