package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mushxhid/Accounting-sub000/internal/logger"
	"github.com/mushxhid/Accounting-sub000/internal/money"
)

// TxSource is implemented by each collection repo; the service merges all
// sources into one walk without knowing about the concrete record types.
type TxSource interface {
	LedgerTransactions(ctx context.Context, orgID string) ([]Transaction, error)
}

type Service struct {
	Balance *BalanceRepo
	Sources []TxSource
}

func NewService(balance *BalanceRepo, sources ...TxSource) *Service {
	return &Service{Balance: balance, Sources: sources}
}

// Collect gathers every transaction of the org across all collections.
func (s *Service) Collect(ctx context.Context, orgID string) ([]Transaction, error) {
	var all []Transaction
	for _, src := range s.Sources {
		txs, err := src.LedgerTransactions(ctx, orgID)
		if err != nil {
			return nil, err
		}
		all = append(all, txs...)
	}
	return all, nil
}

// BalancesFor returns the per-record balance-after map for the org.
func (s *Service) BalancesFor(ctx context.Context, orgID string) (map[string]BalanceAfter, error) {
	txs, err := s.Collect(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return ComputeBalances(txs), nil
}

// CheckDrift compares the walk total against the stored singleton. Drift is
// logged, never auto-corrected; the repair path is the explicit update below.
func (s *Service) CheckDrift(ctx context.Context, orgID string) (walk, stored decimal.Decimal, drifted bool, err error) {
	txs, err := s.Collect(ctx, orgID)
	if err != nil {
		return decimal.Zero, decimal.Zero, false, err
	}
	walk = FinalTotalUSD(txs)

	bal, err := s.Balance.Current(ctx, orgID)
	if err != nil {
		return decimal.Zero, decimal.Zero, false, err
	}
	stored = bal.CurrentUSD

	if !money.WithinEpsilon(walk, stored) {
		logger.Log.WithFields(map[string]interface{}{
			"org_id":  orgID,
			"ledger":  money.FormatUSD(walk),
			"balance": money.FormatUSD(stored),
		}).Warn("balance drift detected between ledger walk and stored balance")
		return walk, stored, true, nil
	}
	return walk, stored, false, nil
}

// Repair sets the singleton to the walk total. Historical per-record
// snapshots are deliberately left untouched.
func (s *Service) Repair(ctx context.Context, orgID string) (decimal.Decimal, error) {
	txs, err := s.Collect(ctx, orgID)
	if err != nil {
		return decimal.Zero, err
	}
	walk := FinalTotalUSD(txs)
	if err := s.Balance.Set(ctx, orgID, walk); err != nil {
		return decimal.Zero, err
	}
	return walk, nil
}
