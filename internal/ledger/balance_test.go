package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func TestCurrentOrZero(t *testing.T) {
	stored := Balance{
		OrgID:      "org1",
		CurrentUSD: decimal.NewFromInt(75),
		UpdatedAt:  time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		name     string
		err      error
		wantErr  bool
		wantZero bool
	}{
		{"row found", nil, false, false},
		{"no row yet", pgx.ErrNoRows, false, true},
		{"wrapped no rows", fmt.Errorf("query balance: %w", pgx.ErrNoRows), false, true},
		{"deadline exceeded", context.DeadlineExceeded, true, false},
		{"connection failure", fmt.Errorf("dial tcp: connection refused"), true, false},
	}
	for _, tc := range cases {
		got, err := currentOrZero(stored, tc.err)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: error = %v, wantErr %v", tc.name, err, tc.wantErr)
			continue
		}
		if tc.wantErr {
			continue
		}
		if tc.wantZero && !got.CurrentUSD.IsZero() {
			t.Errorf("%s: CurrentUSD = %s, want 0", tc.name, got.CurrentUSD)
		}
		if !tc.wantZero && !got.CurrentUSD.Equal(stored.CurrentUSD) {
			t.Errorf("%s: CurrentUSD = %s, want %s", tc.name, got.CurrentUSD, stored.CurrentUSD)
		}
	}
}
