package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToUSD(t *testing.T) {
	rate := decimal.NewFromInt(280)

	usd, err := ToUSD(decimal.NewFromInt(28000), rate)
	if err != nil {
		t.Fatalf("ToUSD error = %v, want nil", err)
	}
	if !usd.Equal(decimal.NewFromInt(100)) {
		t.Errorf("ToUSD(28000, 280) = %s, want 100", usd)
	}
}

func TestToUSD_InvalidRate(t *testing.T) {
	for _, rate := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-280)} {
		if _, err := ToUSD(decimal.NewFromInt(100), rate); err == nil {
			t.Errorf("ToUSD with rate %s error = nil, want error", rate)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rates := []float64{280, 278.35, 1, 0.0042}
	amounts := []float64{28000, 5600, 0.01, 123456.789}

	for _, r := range rates {
		rate := decimal.NewFromFloat(r)
		for _, a := range amounts {
			amount := decimal.NewFromFloat(a)
			usd, err := ToUSD(amount, rate)
			if err != nil {
				t.Fatalf("ToUSD(%s, %s) error = %v", amount, rate, err)
			}
			back := ToLocal(usd, rate)
			if !WithinEpsilon(back, amount) {
				t.Errorf("round trip %s at rate %s = %s", amount, rate, back)
			}
		}
	}
}

func TestValidatePositive(t *testing.T) {
	if err := ValidatePositive(decimal.NewFromFloat(0.01)); err != nil {
		t.Errorf("ValidatePositive(0.01) error = %v, want nil", err)
	}
	if err := ValidatePositive(decimal.Zero); err == nil {
		t.Error("ValidatePositive(0) error = nil, want error")
	}
	if err := ValidatePositive(decimal.NewFromInt(-5)); err == nil {
		t.Error("ValidatePositive(-5) error = nil, want error")
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatUSD(decimal.NewFromFloat(99.999)); got != "100.00" {
		t.Errorf("FormatUSD = %q, want 100.00", got)
	}
	if got := FormatLocal(decimal.NewFromFloat(27999.6)); got != "28000" {
		t.Errorf("FormatLocal = %q, want 28000", got)
	}
	if got := FormatRate(decimal.NewFromFloat(278.34567)); got != "278.3457" {
		t.Errorf("FormatRate = %q, want 278.3457", got)
	}
	if got := FormatRate(decimal.NewFromInt(280)); got != "280" {
		t.Errorf("FormatRate = %q, want 280", got)
	}
}
