package expense

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDeleteReversal(t *testing.T) {
	e := Expense{AmountUSD: decimal.NewFromInt(20)}

	// Create adjusted the balance by the ledger delta; deleting must cancel
	// it exactly.
	net := e.LedgerTransaction().DeltaUSD.Add(e.DeleteReversalUSD())
	if !net.IsZero() {
		t.Errorf("net adjustment after delete = %s, want 0", net)
	}
}
