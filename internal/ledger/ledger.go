package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the collection a transaction came from. No single ordered ledger
// is persisted; the running balance is reconstructed by merge-sorting the
// four collections on every read.
type Kind string

const (
	KindIncome    Kind = "income"
	KindRepayment Kind = "repayment"
	KindExpense   Kind = "expense"
	KindLoan      Kind = "loan"
)

// priority breaks ordering ties between records sharing the same instant:
// money in before money out.
func (k Kind) priority() int {
	switch k {
	case KindIncome:
		return 0
	case KindRepayment:
		return 1
	case KindExpense:
		return 2
	case KindLoan:
		return 3
	}
	return 4
}

// Transaction is the uniform shape every record flattens into. Deltas are
// signed: income and repayments positive, expenses and loan issuances
// negative.
type Transaction struct {
	ID         string
	Kind       Kind
	Date       time.Time
	CreatedAt  time.Time
	DeltaLocal decimal.Decimal
	DeltaUSD   decimal.Decimal
}

// BalanceAfter is the running balance immediately after a transaction's
// effect is applied.
type BalanceAfter struct {
	Local decimal.Decimal
	USD   decimal.Decimal
}

// less defines the total order of the walk: date, then creation time, then
// kind priority, then id. The final id comparison guarantees determinism
// even for records sharing all three earlier keys.
func less(a, b Transaction) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	if a.Kind.priority() != b.Kind.priority() {
		return a.Kind.priority() < b.Kind.priority()
	}
	return a.ID < b.ID
}

// Sorted returns a chronologically ordered copy; the input is left untouched.
func Sorted(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// ComputeBalances replays every transaction in order and returns the balance
// recorded immediately after each one, keyed by transaction id. Every list
// view consumes this; views never re-implement the merge themselves.
func ComputeBalances(txs []Transaction) map[string]BalanceAfter {
	out := make(map[string]BalanceAfter, len(txs))
	runningLocal := decimal.Zero
	runningUSD := decimal.Zero
	for _, tx := range Sorted(txs) {
		runningLocal = runningLocal.Add(tx.DeltaLocal)
		runningUSD = runningUSD.Add(tx.DeltaUSD)
		out[tx.ID] = BalanceAfter{Local: runningLocal, USD: runningUSD}
	}
	return out
}

// FinalTotalUSD is the running USD total after the full walk. Compared
// against the org balance singleton to detect drift.
func FinalTotalUSD(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.DeltaUSD)
	}
	return total
}
