package debit

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDeleteReversal(t *testing.T) {
	d := Debit{AmountUSD: decimal.NewFromInt(100)}

	// Create adjusted the balance by the ledger delta; deleting must cancel
	// it exactly.
	net := d.LedgerTransaction().DeltaUSD.Add(d.DeleteReversalUSD())
	if !net.IsZero() {
		t.Errorf("net adjustment after delete = %s, want 0", net)
	}
}
