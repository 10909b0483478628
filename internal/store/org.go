package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mushxhid/Accounting-sub000/internal/logger"
)

// ClearOrganization deletes every record in every collection for the org and
// resets its balance to zero. One transaction, irreversible; callers gate it
// behind an explicit confirmation.
func ClearOrganization(ctx context.Context, pool *pgxpool.Pool, orgID string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// loan_repayments cascade from loans.
	statements := []string{
		`DELETE FROM loans WHERE org_id = $1`,
		`DELETE FROM expenses WHERE org_id = $1`,
		`DELETE FROM debits WHERE org_id = $1`,
		`DELETE FROM contacts WHERE org_id = $1`,
		`DELETE FROM audit_logs WHERE org_id = $1`,
		`INSERT INTO org_balances (org_id, current_usd, updated_at)
		 VALUES ($1, 0, now())
		 ON CONFLICT (org_id) DO UPDATE SET current_usd = 0, updated_at = now()`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, orgID); err != nil {
			return fmt.Errorf("clear organization: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	logger.Log.WithField("org_id", orgID).Warn("organization data cleared")
	return nil
}

// MigrateLegacy copies records from the deprecated per-user tables into the
// org collections. Skipped when the org already has data: idempotence is by
// emptiness check, not record identity.
func MigrateLegacy(ctx context.Context, pool *pgxpool.Pool, orgID, userID, email string) (migrated int64, err error) {
	var existing int64
	err = pool.QueryRow(ctx, `
		SELECT (SELECT count(*) FROM expenses WHERE org_id = $1)
		     + (SELECT count(*) FROM debits WHERE org_id = $1)
	`, orgID).Scan(&existing)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		logger.Log.WithField("org_id", orgID).Info("legacy migration skipped, destination not empty")
		return 0, nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	expTag, err := tx.Exec(ctx, `
		INSERT INTO expenses (org_id, name, amount_local, amount_usd, spent_on, description, created_by, updated_by, created_at, updated_at)
		SELECT $1, name, amount_local, amount_usd, spent_on, description, $3, $3, created_at, created_at
		FROM user_expenses
		WHERE user_id = $2::uuid
	`, orgID, userID, email)
	if err != nil {
		return 0, fmt.Errorf("migrate legacy expenses: %w", err)
	}

	debTag, err := tx.Exec(ctx, `
		INSERT INTO debits (org_id, amount_local, amount_usd, source, received_on, description, created_by, updated_by, created_at, updated_at)
		SELECT $1, amount_local, amount_usd, source, received_on, description, $3, $3, created_at, created_at
		FROM user_debits
		WHERE user_id = $2::uuid
	`, orgID, userID, email)
	if err != nil {
		return 0, fmt.Errorf("migrate legacy debits: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	migrated = expTag.RowsAffected() + debTag.RowsAffected()
	logger.Log.WithFields(map[string]interface{}{
		"org_id": orgID,
		"rows":   migrated,
	}).Info("legacy data migrated")
	return migrated, nil
}
