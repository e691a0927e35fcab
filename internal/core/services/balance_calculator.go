package services

import (
	"context"
	"fmt"
	"time"

	"bankbook/internal/core/domain"
	portsrepo "bankbook/internal/core/ports/repositories"
	portssvc "bankbook/internal/core/ports/services"
	"bankbook/internal/utils/accounting"
)

// balanceCalculator derives account balances purely from recorded
// transactions. It holds no state and performs no writes.
type balanceCalculator struct {
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
}

// NewBalanceCalculator creates a new balance calculator service.
func NewBalanceCalculator(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader) portssvc.BalanceCalculatorSvc {
	return &balanceCalculator{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.BalanceCalculatorSvc = (*balanceCalculator)(nil)

// CalculateBalance sums signed transaction amounts for the account up to and
// including asOf. excludeTransactionID, when set, names the one transaction to
// leave out: a checkpoint's own synthetic entry during its recomputation.
// Synthetic entries belonging to other checkpoints count as ordinary ledger
// facts; that inclusion is what lets checkpoints chain.
func (s *balanceCalculator) CalculateBalance(ctx context.Context, accountID string, asOf time.Time, excludeTransactionID *string) (*domain.BalanceResult, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to read account %s: %w", accountID, err)
	}

	transactions, err := s.txnRepo.ListTransactionsUpTo(ctx, accountID, asOf, excludeTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}

	return &domain.BalanceResult{
		Balance:            accounting.SumSignedAmounts(transactions),
		NonAdjustmentCount: accounting.CountNonAdjustment(transactions),
	}, nil
}
