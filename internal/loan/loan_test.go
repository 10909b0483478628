package loan

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateRepayment(t *testing.T) {
	outstanding := decimal.NewFromInt(2800)

	cases := []struct {
		name    string
		amount  decimal.Decimal
		wantErr bool
	}{
		{"partial repayment", decimal.NewFromInt(1400), false},
		{"full repayment", decimal.NewFromInt(2800), false},
		{"exceeds outstanding", decimal.NewFromInt(2801), true},
		{"zero", decimal.Zero, true},
		{"negative", decimal.NewFromInt(-100), true},
	}
	for _, tc := range cases {
		err := ValidateRepayment(outstanding, tc.amount)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: ValidateRepayment(%s, %s) error = %v, wantErr %v",
				tc.name, outstanding, tc.amount, err, tc.wantErr)
		}
	}
}

func TestValidateRepayment_ExceedsSentinel(t *testing.T) {
	err := ValidateRepayment(decimal.NewFromInt(100), decimal.NewFromInt(200))
	if err != ErrRepaymentExceedsOutstanding {
		t.Errorf("error = %v, want ErrRepaymentExceedsOutstanding", err)
	}
}

func TestOutstandingAfter(t *testing.T) {
	principal := decimal.NewFromInt(2800)
	reps := []Repayment{
		{AmountLocal: decimal.NewFromInt(1400)},
		{AmountLocal: decimal.NewFromInt(1000)},
	}

	got := OutstandingAfter(principal, reps)
	if !got.Equal(decimal.NewFromInt(400)) {
		t.Errorf("OutstandingAfter = %s, want 400", got)
	}

	// Over-repaid data clamps at zero rather than going negative.
	reps = append(reps, Repayment{AmountLocal: decimal.NewFromInt(9999)})
	if got := OutstandingAfter(principal, reps); !got.Equal(decimal.Zero) {
		t.Errorf("OutstandingAfter (over-repaid) = %s, want 0", got)
	}

	if got := OutstandingAfter(principal, nil); !got.Equal(principal) {
		t.Errorf("OutstandingAfter (no repayments) = %s, want %s", got, principal)
	}
}

func TestDeleteReversal(t *testing.T) {
	cases := []struct {
		name         string
		principalUSD int64
		repaidUSD    []int64
		want         int64
	}{
		{"no repayments", 10, nil, 10},
		{"partial repayment", 10, []int64{5}, 5},
		{"multiple repayments", 10, []int64{3, 4}, 3},
		{"fully repaid", 10, []int64{5, 5}, 0},
	}
	for _, tc := range cases {
		l := Loan{PrincipalUSD: decimal.NewFromInt(tc.principalUSD)}
		for _, amt := range tc.repaidUSD {
			l.Repayments = append(l.Repayments, Repayment{
				AmountUSD:   decimal.NewFromInt(amt),
				AmountLocal: decimal.NewFromInt(amt),
			})
		}

		reversal := l.DeleteReversalUSD()
		if !reversal.Equal(decimal.NewFromInt(tc.want)) {
			t.Errorf("%s: DeleteReversalUSD = %s, want %d", tc.name, reversal, tc.want)
		}

		// Deleting must cancel everything the loan ever contributed to the
		// balance: issuance, repayments and the reversal sum to zero.
		net := reversal
		for _, tx := range l.LedgerTransactions() {
			net = net.Add(tx.DeltaUSD)
		}
		if !net.IsZero() {
			t.Errorf("%s: net adjustment after delete = %s, want 0", tc.name, net)
		}
	}
}

func TestLedgerTransactions(t *testing.T) {
	issued := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	paid := issued.AddDate(0, 0, 7)

	l := Loan{
		ID:             "loan1",
		PrincipalLocal: decimal.NewFromInt(2800),
		PrincipalUSD:   decimal.NewFromInt(10),
		IssuedOn:       issued,
		CreatedAt:      issued,
		Repayments: []Repayment{{
			ID:          "rep1",
			AmountLocal: decimal.NewFromInt(1400),
			AmountUSD:   decimal.NewFromInt(5),
			PaidOn:      paid,
			CreatedAt:   paid,
		}},
	}

	txs := l.LedgerTransactions()
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}

	// Issuance counts negative at full principal.
	if !txs[0].DeltaUSD.Equal(decimal.NewFromInt(-10)) {
		t.Errorf("issuance delta = %s, want -10", txs[0].DeltaUSD)
	}
	// Repayment counts positive on its own date.
	if !txs[1].DeltaUSD.Equal(decimal.NewFromInt(5)) {
		t.Errorf("repayment delta = %s, want 5", txs[1].DeltaUSD)
	}
	if !txs[1].Date.Equal(paid) {
		t.Errorf("repayment date = %s, want %s", txs[1].Date, paid)
	}
}
