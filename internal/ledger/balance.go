package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Balance is the org-scoped singleton holding the authoritative current USD
// balance. Per-record balance_after snapshots are denormalized copies of the
// walk and may drift; this row is the one adjusted on every mutation.
type Balance struct {
	OrgID      string          `json:"org_id"`
	CurrentUSD decimal.Decimal `json:"current_usd"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type BalanceRepo struct {
	Pool *pgxpool.Pool
}

func NewBalanceRepo(pool *pgxpool.Pool) *BalanceRepo {
	return &BalanceRepo{Pool: pool}
}

func (r *BalanceRepo) Current(ctx context.Context, orgID string) (Balance, error) {
	b := Balance{OrgID: orgID}
	err := r.Pool.QueryRow(ctx, `
		SELECT current_usd, updated_at
		FROM org_balances
		WHERE org_id = $1
	`, orgID).Scan(&b.CurrentUSD, &b.UpdatedAt)
	return currentOrZero(b, err)
}

// currentOrZero keeps the zero-balance fallback for a fresh org only. Any
// other scan error propagates: a zero fallback there would end up
// snapshotted into immutable balance_after columns.
func currentOrZero(b Balance, err error) (Balance, error) {
	if err == nil {
		return b, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		b.CurrentUSD = decimal.Zero
		b.UpdatedAt = time.Now().UTC()
		return b, nil
	}
	return Balance{}, err
}

// Adjust applies a signed USD delta with a single atomic increment so two
// admins mutating concurrently never lose each other's adjustment.
func (r *BalanceRepo) Adjust(ctx context.Context, orgID string, deltaUSD decimal.Decimal) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO org_balances (org_id, current_usd, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (org_id)
		DO UPDATE SET current_usd = org_balances.current_usd + $2, updated_at = now()
	`, orgID, deltaUSD)
	return err
}

// Set overwrites the singleton. Used by the explicit "Update Balance" repair
// and by the org reset; never called on the normal mutation path.
func (r *BalanceRepo) Set(ctx context.Context, orgID string, valueUSD decimal.Decimal) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO org_balances (org_id, current_usd, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (org_id)
		DO UPDATE SET current_usd = $2, updated_at = now()
	`, orgID, valueUSD)
	return err
}

// Orgs lists every organization that has a balance row; the nightly drift
// job iterates these.
func (r *BalanceRepo) Orgs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT org_id FROM org_balances`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		orgs = append(orgs, id)
	}
	return orgs, rows.Err()
}
