package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mushxhid/Accounting-sub000/internal/ledger"
)

var (
	ErrNotFound                    = errors.New("loan not found")
	ErrRepaymentExceedsOutstanding = errors.New("repayment exceeds outstanding amount")
)

// Loan tracks money lent to a partner. Principal is captured at creation and
// never mutates; outstanding decreases as repayments are applied.
type Loan struct {
	ID               string          `db:"id" json:"id"`
	OrgID            string          `db:"org_id" json:"org_id"`
	PartnerName      string          `db:"partner_name" json:"partner_name"`
	OutstandingLocal decimal.Decimal `db:"outstanding_local" json:"outstanding_local"`
	OutstandingUSD   decimal.Decimal `db:"outstanding_usd" json:"outstanding_usd"`
	PrincipalLocal   decimal.Decimal `db:"principal_local" json:"principal_local"`
	PrincipalUSD     decimal.Decimal `db:"principal_usd" json:"principal_usd"`
	IssuedOn         time.Time       `db:"issued_on" json:"issued_on"`
	Description      string          `db:"description" json:"description"`
	BalanceAfterUSD  decimal.Decimal `db:"balance_after_usd" json:"balance_after_usd"`
	Repayments       []Repayment     `json:"repayments"`
	CreatedBy        string          `db:"created_by" json:"created_by"`
	UpdatedBy        string          `db:"updated_by" json:"updated_by"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// Repayment lives and dies with its parent loan.
type Repayment struct {
	ID          string          `db:"id" json:"id"`
	LoanID      string          `db:"loan_id" json:"loan_id"`
	AmountLocal decimal.Decimal `db:"amount_local" json:"amount_local"`
	AmountUSD   decimal.Decimal `db:"amount_usd" json:"amount_usd"`
	PaidOn      time.Time       `db:"paid_on" json:"paid_on"`
	Description string          `db:"description" json:"description"`
	CreatedBy   string          `db:"created_by" json:"created_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

type CreateLoanRequest struct {
	PartnerName string          `json:"partner_name"`
	AmountLocal decimal.Decimal `json:"amount_local"`
	IssuedOn    string          `json:"issued_on"` // YYYY-MM-DD
	Description string          `json:"description"`
}

type RepayRequest struct {
	AmountLocal decimal.Decimal `json:"amount_local"`
	PaidOn      string          `json:"paid_on"` // YYYY-MM-DD
	Description string          `json:"description"`
}

// ValidateRepayment rejects a repayment before any write lands: it must be
// positive and must not exceed the loan's current outstanding amount.
func ValidateRepayment(outstandingLocal, amountLocal decimal.Decimal) error {
	if amountLocal.Sign() <= 0 {
		return errors.New("repayment amount must be greater than zero")
	}
	if amountLocal.GreaterThan(outstandingLocal) {
		return ErrRepaymentExceedsOutstanding
	}
	return nil
}

// OutstandingAfter derives outstanding = principal − sum(repayments),
// clamped at zero.
func OutstandingAfter(principal decimal.Decimal, repayments []Repayment) decimal.Decimal {
	out := principal
	for _, r := range repayments {
		out = out.Sub(r.AmountLocal)
	}
	if out.Sign() < 0 {
		return decimal.Zero
	}
	return out
}

// DeleteReversalUSD is the signed adjustment that undoes the loan's net
// effect on the balance when the loan is deleted with its repayments: the
// issuance counted -principal and each repayment counted positive, so the
// reversal is principal - sum(repayments), i.e. the outstanding amount.
func (l Loan) DeleteReversalUSD() decimal.Decimal {
	out := l.PrincipalUSD
	for _, r := range l.Repayments {
		out = out.Sub(r.AmountUSD)
	}
	return out
}

// LedgerTransactions flattens the loan and its repayments for the balance
// walk: the issuance counts negative at full principal, each repayment
// counts positive on its own date.
func (l Loan) LedgerTransactions() []ledger.Transaction {
	txs := make([]ledger.Transaction, 0, len(l.Repayments)+1)
	txs = append(txs, ledger.Transaction{
		ID:         l.ID,
		Kind:       ledger.KindLoan,
		Date:       l.IssuedOn,
		CreatedAt:  l.CreatedAt,
		DeltaLocal: l.PrincipalLocal.Neg(),
		DeltaUSD:   l.PrincipalUSD.Neg(),
	})
	for _, r := range l.Repayments {
		txs = append(txs, ledger.Transaction{
			ID:         r.ID,
			Kind:       ledger.KindRepayment,
			Date:       r.PaidOn,
			CreatedAt:  r.CreatedAt,
			DeltaLocal: r.AmountLocal,
			DeltaUSD:   r.AmountUSD,
		})
	}
	return txs
}
