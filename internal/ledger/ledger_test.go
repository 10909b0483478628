package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func tx(id string, kind Kind, date, created time.Time, local, usd float64) Transaction {
	return Transaction{
		ID:         id,
		Kind:       kind,
		Date:       date,
		CreatedAt:  created,
		DeltaLocal: decimal.NewFromFloat(local),
		DeltaUSD:   decimal.NewFromFloat(usd),
	}
}

func TestComputeBalances_Scenario(t *testing.T) {
	// Rate 280: income 28000 -> 100 USD, expense 5600 -> 20 USD,
	// loan 2800 -> 10 USD, repayment 1400 -> 5 USD.
	txs := []Transaction{
		tx("inc1", KindIncome, day(1), day(1), 28000, 100),
		tx("exp1", KindExpense, day(2), day(2), -5600, -20),
		tx("loan1", KindLoan, day(3), day(3), -2800, -10),
		tx("rep1", KindRepayment, day(4), day(4), 1400, 5),
	}

	balances := ComputeBalances(txs)

	want := map[string]float64{
		"inc1":  100,
		"exp1":  80,
		"loan1": 70,
		"rep1":  75,
	}
	for id, usd := range want {
		got, ok := balances[id]
		if !ok {
			t.Fatalf("no balance recorded for %s", id)
		}
		if !got.USD.Equal(decimal.NewFromFloat(usd)) {
			t.Errorf("balance after %s = %s, want %v", id, got.USD, usd)
		}
	}

	if total := FinalTotalUSD(txs); !total.Equal(decimal.NewFromInt(75)) {
		t.Errorf("final total = %s, want 75", total)
	}
}

func TestComputeBalances_DeterministicUnderReordering(t *testing.T) {
	base := []Transaction{
		tx("a", KindIncome, day(1), day(1), 1000, 10),
		tx("b", KindExpense, day(1), day(1), -500, -5),
		tx("c", KindRepayment, day(1), day(1), 200, 2),
		tx("d", KindLoan, day(1), day(1), -300, -3),
		tx("e", KindIncome, day(2), day(2), 700, 7),
		// Same date, same created_at, same kind: id is the last tiebreak.
		tx("f", KindExpense, day(2), day(2), -100, -1),
		tx("g", KindExpense, day(2), day(2), -100, -1),
	}

	want := ComputeBalances(base)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]Transaction, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := ComputeBalances(shuffled)
		for id, w := range want {
			if !got[id].USD.Equal(w.USD) || !got[id].Local.Equal(w.Local) {
				t.Fatalf("shuffle %d: balance for %s = %s/%s, want %s/%s",
					i, id, got[id].Local, got[id].USD, w.Local, w.USD)
			}
		}
	}
}

func TestSorted_TieBreaks(t *testing.T) {
	// All four kinds on the same instant: income and repayment settle before
	// expense and loan.
	txs := []Transaction{
		tx("loan", KindLoan, day(1), day(1), -300, -3),
		tx("exp", KindExpense, day(1), day(1), -500, -5),
		tx("rep", KindRepayment, day(1), day(1), 200, 2),
		tx("inc", KindIncome, day(1), day(1), 1000, 10),
	}

	sorted := Sorted(txs)
	wantOrder := []string{"inc", "rep", "exp", "loan"}
	for i, id := range wantOrder {
		if sorted[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, sorted[i].ID, id)
		}
	}

	// Earlier created_at wins over kind priority.
	txs = []Transaction{
		tx("late-income", KindIncome, day(1), day(1).Add(time.Hour), 100, 1),
		tx("early-expense", KindExpense, day(1), day(1), -100, -1),
	}
	sorted = Sorted(txs)
	if sorted[0].ID != "early-expense" {
		t.Errorf("created_at should break ties before kind priority, got %s first", sorted[0].ID)
	}
}

func TestSorted_DoesNotMutateInput(t *testing.T) {
	txs := []Transaction{
		tx("b", KindExpense, day(2), day(2), -1, -1),
		tx("a", KindIncome, day(1), day(1), 1, 1),
	}
	Sorted(txs)
	if txs[0].ID != "b" {
		t.Error("Sorted mutated its input")
	}
}

func TestFinalTotal_SignConservation(t *testing.T) {
	txs := []Transaction{
		tx("i1", KindIncome, day(1), day(1), 0, 120),
		tx("i2", KindIncome, day(2), day(2), 0, 30),
		tx("r1", KindRepayment, day(3), day(3), 0, 5),
		tx("e1", KindExpense, day(4), day(4), 0, -40),
		tx("l1", KindLoan, day(5), day(5), 0, -25),
	}

	// sum(income) + sum(repayments) - sum(expenses) - sum(loans)
	want := decimal.NewFromInt(120 + 30 + 5 - 40 - 25)
	if total := FinalTotalUSD(txs); !total.Equal(want) {
		t.Errorf("final total = %s, want %s", total, want)
	}

	// The last element of the walk agrees with the arithmetic total.
	balances := ComputeBalances(txs)
	if !balances["l1"].USD.Equal(want) {
		t.Errorf("walk final = %s, want %s", balances["l1"].USD, want)
	}
}

func TestComputeBalances_Empty(t *testing.T) {
	if got := ComputeBalances(nil); len(got) != 0 {
		t.Errorf("ComputeBalances(nil) = %v, want empty", got)
	}
	if !FinalTotalUSD(nil).Equal(decimal.Zero) {
		t.Error("FinalTotalUSD(nil) != 0")
	}
}
