package debit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mushxhid/Accounting-sub000/internal/ledger"
)

// Debit is an income record. Both amounts are fixed at entry time from the
// cached rate; the USD value never changes retroactively.
type Debit struct {
	ID              string          `db:"id" json:"id"`
	OrgID           string          `db:"org_id" json:"org_id"`
	AmountLocal     decimal.Decimal `db:"amount_local" json:"amount_local"`
	AmountUSD       decimal.Decimal `db:"amount_usd" json:"amount_usd"`
	Source          string          `db:"source" json:"source"`
	ReceivedOn      time.Time       `db:"received_on" json:"received_on"`
	Description     string          `db:"description" json:"description"`
	BalanceAfterUSD decimal.Decimal `db:"balance_after_usd" json:"balance_after_usd"`
	CreatedBy       string          `db:"created_by" json:"created_by"`
	UpdatedBy       string          `db:"updated_by" json:"updated_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

type CreateDebitRequest struct {
	AmountLocal decimal.Decimal `json:"amount_local"`
	Source      string          `json:"source"`
	ReceivedOn  string          `json:"received_on"` // YYYY-MM-DD
	Description string          `json:"description"`
}

// DeleteReversalUSD undoes the record's effect on the balance: income
// counted positive, so the reversal subtracts it.
func (d Debit) DeleteReversalUSD() decimal.Decimal {
	return d.AmountUSD.Neg()
}

// LedgerTransaction flattens the record for the balance walk; income counts
// positive.
func (d Debit) LedgerTransaction() ledger.Transaction {
	return ledger.Transaction{
		ID:         d.ID,
		Kind:       ledger.KindIncome,
		Date:       d.ReceivedOn,
		CreatedAt:  d.CreatedAt,
		DeltaLocal: d.AmountLocal,
		DeltaUSD:   d.AmountUSD,
	}
}
