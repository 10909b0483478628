package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRate   = errors.New("exchange rate must be greater than zero")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)

// Epsilon is the tolerance used when comparing the ledger walk against the
// stored org balance. Anything beyond a cent of drift is worth a warning.
var Epsilon = decimal.New(1, -2)

// ToUSD converts a local-currency amount using a PKR-per-USD rate.
// No rounding is applied; rounding is display-only.
func ToUSD(local, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.Sign() <= 0 {
		return decimal.Zero, ErrInvalidRate
	}
	return local.Div(rate), nil
}

// ToLocal converts a USD amount back to local currency.
func ToLocal(usd, rate decimal.Decimal) decimal.Decimal {
	return usd.Mul(rate)
}

// ValidatePositive rejects zero and negative entry amounts before any write.
func ValidatePositive(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// WithinEpsilon reports whether two USD values agree within Epsilon.
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// FormatUSD renders a USD amount with two decimals.
func FormatUSD(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatLocal renders a local-currency amount with no decimals.
func FormatLocal(d decimal.Decimal) string {
	return d.StringFixed(0)
}

// FormatRate renders an exchange rate with up to four decimals.
func FormatRate(d decimal.Decimal) string {
	return d.Round(4).String()
}
