package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "bankbook/internal/core/ports/repositories"
	portssvc "bankbook/internal/core/ports/services"
	"bankbook/internal/middleware"
)

// systemActor is the audit identity for writes the engine performs on its own.
const systemActor = "system"

// DefaultOpeningDateOffset places the ledger-start marker one day before the
// earliest transaction, so "balance as of any date before the marker" is
// well-defined (zero) everywhere.
const DefaultOpeningDateOffset = 24 * time.Hour

// openingDateService maintains the derived opening-balance date on accounts.
type openingDateService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionReader
	offset      time.Duration
}

// NewOpeningDateService creates the opening-balance date updater. A
// non-positive offset falls back to the default.
func NewOpeningDateService(accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionReader, offset time.Duration) portssvc.OpeningDateSvc {
	if offset <= 0 {
		offset = DefaultOpeningDateOffset
	}
	return &openingDateService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		offset:      offset,
	}
}

var _ portssvc.OpeningDateSvc = (*openingDateService)(nil)

// RefreshOpeningDate recomputes the account's ledger-start marker from the
// earliest transaction on record, real or synthetic. Idempotent; skips the
// write when the marker is already correct.
func (s *openingDateService) RefreshOpeningDate(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to read account %s: %w", accountID, err)
	}

	earliest, err := s.txnRepo.FindEarliestTransactionDate(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to find earliest transaction for account %s: %w", accountID, err)
	}

	var target *time.Time
	if earliest != nil {
		shifted := earliest.Add(-s.offset)
		target = &shifted
	}

	if datesEqual(account.OpeningBalanceDate, target) {
		return nil
	}

	now := time.Now().UTC()
	if err := s.accountRepo.UpdateOpeningBalanceDate(ctx, accountID, target, systemActor, now); err != nil {
		return fmt.Errorf("failed to update opening balance date for account %s: %w", accountID, err)
	}

	if target != nil {
		logger.Debug("Opening balance date refreshed",
			slog.String("account_id", accountID),
			slog.Time("opening_balance_date", *target))
	} else {
		logger.Debug("Opening balance date cleared, ledger empty",
			slog.String("account_id", accountID))
	}
	return nil
}

func datesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
