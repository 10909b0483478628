package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mushxhid/Accounting-sub000/internal/ledger"
)

// Expense references a contact through a weak, nullable id; a dangling
// reference is tolerated and rendered as "no contact".
type Expense struct {
	ID              string          `db:"id" json:"id"`
	OrgID           string          `db:"org_id" json:"org_id"`
	Name            string          `db:"name" json:"name"`
	AmountLocal     decimal.Decimal `db:"amount_local" json:"amount_local"`
	AmountUSD       decimal.Decimal `db:"amount_usd" json:"amount_usd"`
	AccountNumber   string          `db:"account_number" json:"account_number"`
	ContactID       *string         `db:"contact_id" json:"contact_id,omitempty"`
	SpentOn         time.Time       `db:"spent_on" json:"spent_on"`
	Description     string          `db:"description" json:"description"`
	ReceiptURL      *string         `db:"receipt_url" json:"receipt_url,omitempty"`
	BalanceAfterUSD decimal.Decimal `db:"balance_after_usd" json:"balance_after_usd"`
	CreatedBy       string          `db:"created_by" json:"created_by"`
	UpdatedBy       string          `db:"updated_by" json:"updated_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

type UpsertExpenseRequest struct {
	Name          string          `json:"name"`
	AmountLocal   decimal.Decimal `json:"amount_local"`
	AccountNumber string          `json:"account_number"`
	ContactID     *string         `json:"contact_id"`
	SpentOn       string          `json:"spent_on"` // YYYY-MM-DD
	Description   string          `json:"description"`
	ReceiptURL    *string         `json:"receipt_url"`
}

// DeleteReversalUSD undoes the record's effect on the balance: the expense
// counted negative, so the reversal adds the amount back.
func (e Expense) DeleteReversalUSD() decimal.Decimal {
	return e.AmountUSD
}

// LedgerTransaction flattens the record for the balance walk; expenses count
// negative.
func (e Expense) LedgerTransaction() ledger.Transaction {
	return ledger.Transaction{
		ID:         e.ID,
		Kind:       ledger.KindExpense,
		Date:       e.SpentOn,
		CreatedAt:  e.CreatedAt,
		DeltaLocal: e.AmountLocal.Neg(),
		DeltaUSD:   e.AmountUSD.Neg(),
	}
}
