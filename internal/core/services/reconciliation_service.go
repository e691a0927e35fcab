package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bankbook/internal/apperrors"
	"bankbook/internal/core/domain"
	portsrepo "bankbook/internal/core/ports/repositories"
	portssvc "bankbook/internal/core/ports/services"
	"bankbook/internal/middleware"
	"bankbook/internal/utils/accounting"
)

// reconciliationService is the checkpoint manager and recalculation engine.
// All checkpoint writes for one account are serialized through locks, so a
// recalculation pass never races an upsert on the same ledger.
type reconciliationService struct {
	checkpointRepo portsrepo.CheckpointRepositoryFacade
	txnRepo        portsrepo.TransactionRepositoryFacade
	accountRepo    portsrepo.AccountReader
	calculator     portssvc.BalanceCalculatorSvc
	synthesizer    portssvc.AdjustmentSynthesizerSvc
	openingDates   portssvc.OpeningDateSvc
	currencySvc    portssvc.CurrencySvcFacade
	locks          *accountLocker
}

// NewReconciliationService creates the reconciliation service facade.
func NewReconciliationService(
	checkpointRepo portsrepo.CheckpointRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	calculator portssvc.BalanceCalculatorSvc,
	synthesizer portssvc.AdjustmentSynthesizerSvc,
	openingDates portssvc.OpeningDateSvc,
	currencySvc portssvc.CurrencySvcFacade,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		checkpointRepo: checkpointRepo,
		txnRepo:        txnRepo,
		accountRepo:    accountRepo,
		calculator:     calculator,
		synthesizer:    synthesizer,
		openingDates:   openingDates,
		currencySvc:    currencySvc,
		locks:          newAccountLocker(),
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// normalizeCheckpointDate pins checkpoint dates to UTC midnight so the
// (account, date) uniqueness rule is insensitive to time-of-day noise.
func normalizeCheckpointDate(date time.Time) time.Time {
	y, m, d := date.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UpsertCheckpoint creates or updates the checkpoint for (account, date),
// recomputes the calculated balance excluding the checkpoint's own synthetic
// entry, derives the adjustment, and syncs the synthetic transaction.
func (s *reconciliationService) UpsertCheckpoint(ctx context.Context, accountID string, date time.Time, declaredBalance decimal.Decimal, notes string, actor string) (*domain.Checkpoint, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	unlock := s.locks.Lock(accountID)
	defer unlock()

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to read account %s: %w", accountID, err)
	}

	checkpointDate := normalizeCheckpointDate(date)

	existing, err := s.checkpointRepo.FindCheckpointByAccountAndDate(ctx, accountID, checkpointDate)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up checkpoint for account %s on %s: %w", accountID, checkpointDate.Format("2006-01-02"), err)
	}

	// The checkpoint's own synthetic entry must not feed its own balance, or
	// every recomputation would see the gap it previously filled.
	var excludeID *string
	if existing != nil {
		adj, err := s.txnRepo.FindAdjustmentByCheckpointID(ctx, existing.CheckpointID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to find adjustment for checkpoint %s: %w", existing.CheckpointID, err)
		}
		if adj != nil {
			excludeID = &adj.TransactionID
		}
	}

	result, err := s.calculator.CalculateBalance(ctx, accountID, checkpointDate, excludeID)
	if err != nil {
		return nil, err
	}

	adjustment := declaredBalance.Sub(result.Balance)
	precision := s.currencySvc.PrecisionFor(ctx, account.CurrencyCode)

	now := time.Now().UTC()
	checkpoint := domain.Checkpoint{
		AccountID:         accountID,
		CheckpointDate:    checkpointDate,
		DeclaredBalance:   declaredBalance,
		CalculatedBalance: result.Balance,
		AdjustmentAmount:  adjustment,
		IsReconciled:      accounting.IsReconciled(adjustment, precision),
		Notes:             notes,
	}

	if existing == nil {
		checkpoint.CheckpointID = uuid.NewString()
		checkpoint.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		}
		if err := s.checkpointRepo.SaveCheckpoint(ctx, checkpoint); err != nil {
			return nil, fmt.Errorf("failed to save checkpoint: %w", err)
		}
	} else {
		checkpoint.CheckpointID = existing.CheckpointID
		checkpoint.AuditFields = domain.AuditFields{
			CreatedAt:     existing.CreatedAt,
			CreatedBy:     existing.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		}
		if err := s.checkpointRepo.UpdateCheckpoint(ctx, checkpoint); err != nil {
			return nil, fmt.Errorf("failed to update checkpoint %s: %w", checkpoint.CheckpointID, err)
		}
	}

	if err := s.synthesizer.SyncAdjustmentTransaction(ctx, checkpoint, actor); err != nil {
		return nil, err
	}

	if err := s.openingDates.RefreshOpeningDate(ctx, accountID); err != nil {
		return nil, err
	}

	logger.Info("Checkpoint upserted",
		slog.String("checkpoint_id", checkpoint.CheckpointID),
		slog.String("account_id", accountID),
		slog.Time("checkpoint_date", checkpointDate),
		slog.String("adjustment_amount", adjustment.String()),
		slog.Bool("is_reconciled", checkpoint.IsReconciled))
	return &checkpoint, nil
}

// DeleteCheckpoint removes a checkpoint along with its synthetic transaction.
// Later checkpoints are left as-is; their cached balances may now be stale and
// a Recalculate pass re-derives them.
func (s *reconciliationService) DeleteCheckpoint(ctx context.Context, accountID string, checkpointID string, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	unlock := s.locks.Lock(accountID)
	defer unlock()

	checkpoint, err := s.checkpointRepo.FindCheckpointByID(ctx, checkpointID)
	if err != nil {
		return fmt.Errorf("failed to find checkpoint %s: %w", checkpointID, err)
	}
	if checkpoint.AccountID != accountID {
		return fmt.Errorf("%w: checkpoint %s does not belong to account %s", apperrors.ErrNotFound, checkpointID, accountID)
	}

	if err := s.synthesizer.RemoveAdjustmentTransaction(ctx, checkpointID); err != nil {
		return err
	}
	if err := s.checkpointRepo.DeleteCheckpoint(ctx, checkpointID); err != nil {
		return fmt.Errorf("failed to delete checkpoint %s: %w", checkpointID, err)
	}

	if err := s.openingDates.RefreshOpeningDate(ctx, accountID); err != nil {
		return err
	}

	logger.Info("Checkpoint deleted",
		slog.String("checkpoint_id", checkpointID),
		slog.String("account_id", accountID),
		slog.String("deleted_by", actor))
	return nil
}

// ListCheckpoints retrieves a page of the account's checkpoints, newest first,
// optionally narrowed to a date range.
func (s *reconciliationService) ListCheckpoints(ctx context.Context, accountID string, opts portssvc.ListCheckpointsOptions) ([]domain.Checkpoint, *string, error) {
	if opts.FromDate != nil && opts.ToDate != nil && opts.FromDate.After(*opts.ToDate) {
		return nil, nil, fmt.Errorf("%w: fromDate is after toDate", apperrors.ErrValidation)
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, nil, fmt.Errorf("failed to read account %s: %w", accountID, err)
	}
	filter := portsrepo.CheckpointFilter{FromDate: opts.FromDate, ToDate: opts.ToDate}
	checkpoints, token, err := s.checkpointRepo.ListCheckpointsPage(ctx, accountID, filter, opts.Limit, opts.NextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list checkpoints for account %s: %w", accountID, err)
	}
	return checkpoints, token, nil
}

// CheckpointSummary aggregates reconciliation counts and totals for an account.
func (s *reconciliationService) CheckpointSummary(ctx context.Context, accountID string) (*domain.CheckpointSummary, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to read account %s: %w", accountID, err)
	}

	checkpoints, err := s.checkpointRepo.ListCheckpoints(ctx, accountID, portsrepo.CheckpointFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints for account %s: %w", accountID, err)
	}

	summary := domain.CheckpointSummary{
		AccountID:             accountID,
		TotalCheckpoints:      len(checkpoints),
		TotalAdjustmentAmount: decimal.Zero,
	}
	for i := range checkpoints {
		cp := &checkpoints[i]
		if cp.IsReconciled {
			summary.ReconciledCount++
		} else {
			summary.UnreconciledCount++
		}
		summary.TotalAdjustmentAmount = summary.TotalAdjustmentAmount.Add(cp.AdjustmentAmount)
		date := cp.CheckpointDate
		if summary.EarliestCheckpoint == nil || date.Before(*summary.EarliestCheckpoint) {
			summary.EarliestCheckpoint = &date
		}
		if summary.LatestCheckpoint == nil || date.After(*summary.LatestCheckpoint) {
			summary.LatestCheckpoint = &date
		}
	}
	return &summary, nil
}

// ListFlaggedTransactions returns flagged ledger entries joined back to the
// checkpoints that produced them.
func (s *reconciliationService) ListFlaggedTransactions(ctx context.Context, accountID string) ([]domain.FlaggedTransaction, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to read account %s: %w", accountID, err)
	}

	transactions, err := s.txnRepo.ListFlaggedTransactions(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list flagged transactions for account %s: %w", accountID, err)
	}

	checkpointCache := make(map[string]*domain.Checkpoint)
	flagged := make([]domain.FlaggedTransaction, 0, len(transactions))
	for _, txn := range transactions {
		entry := domain.FlaggedTransaction{Transaction: txn}
		if txn.CheckpointID != nil {
			cp, ok := checkpointCache[*txn.CheckpointID]
			if !ok {
				cp, err = s.checkpointRepo.FindCheckpointByID(ctx, *txn.CheckpointID)
				if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("failed to find checkpoint %s: %w", *txn.CheckpointID, err)
				}
				checkpointCache[*txn.CheckpointID] = cp
			}
			if cp != nil {
				entry.CheckpointDate = &cp.CheckpointDate
				entry.DeclaredBalance = &cp.DeclaredBalance
				entry.CalculatedBalance = &cp.CalculatedBalance
			}
		}
		flagged = append(flagged, entry)
	}
	return flagged, nil
}
