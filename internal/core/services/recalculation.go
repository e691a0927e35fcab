package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"bankbook/internal/apperrors"
	"bankbook/internal/core/domain"
	portsrepo "bankbook/internal/core/ports/repositories"
	portssvc "bankbook/internal/core/ports/services"
	"bankbook/internal/middleware"
	"bankbook/internal/utils/accounting"
)

// Recalculate re-derives the selected checkpoints in ascending date order,
// oldest first, so each checkpoint's recomputation sees the synthetic entries
// earlier checkpoints settled on. Each checkpoint is committed as it is
// processed; on error the pass aborts and already-processed checkpoints keep
// their corrected state. Re-running the pass over an unchanged ledger is a
// no-op and returns no deltas.
func (s *reconciliationService) Recalculate(ctx context.Context, accountID string, opts portssvc.RecalculateOptions, actor string) ([]domain.CheckpointDelta, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if opts.FromDate != nil && opts.ToDate != nil && opts.FromDate.After(*opts.ToDate) {
		return nil, fmt.Errorf("%w: fromDate is after toDate", apperrors.ErrValidation)
	}

	unlock := s.locks.Lock(accountID)
	defer unlock()

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to read account %s: %w", accountID, err)
	}
	precision := s.currencySvc.PrecisionFor(ctx, account.CurrencyCode)

	checkpoints, err := s.checkpointRepo.ListCheckpoints(ctx, accountID, portsrepo.CheckpointFilter{
		FromDate:      opts.FromDate,
		ToDate:        opts.ToDate,
		CheckpointIDs: opts.CheckpointIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints for account %s: %w", accountID, err)
	}
	sort.SliceStable(checkpoints, func(i, j int) bool {
		return checkpoints[i].CheckpointDate.Before(checkpoints[j].CheckpointDate)
	})

	deltas := make([]domain.CheckpointDelta, 0, len(checkpoints))
	for _, cp := range checkpoints {
		delta, err := s.recalculateOne(ctx, cp, precision, actor)
		if err != nil {
			return deltas, fmt.Errorf("recalculation aborted at checkpoint %s (%s): %w",
				cp.CheckpointID, cp.CheckpointDate.Format("2006-01-02"), err)
		}
		if delta.Changed() {
			deltas = append(deltas, delta)
		}
	}

	if err := s.openingDates.RefreshOpeningDate(ctx, accountID); err != nil {
		return deltas, err
	}

	logger.Info("Recalculation pass complete",
		slog.String("account_id", accountID),
		slog.Int("checkpoints_processed", len(checkpoints)),
		slog.Int("checkpoints_changed", len(deltas)))
	return deltas, nil
}

// recalculateOne recomputes a single checkpoint against the current ledger and
// persists the result. Persist-then-sync mirrors the upsert path, so a
// recalculated checkpoint is indistinguishable from a freshly upserted one.
func (s *reconciliationService) recalculateOne(ctx context.Context, cp domain.Checkpoint, precision int, actor string) (domain.CheckpointDelta, error) {
	var excludeID *string
	adj, err := s.txnRepo.FindAdjustmentByCheckpointID(ctx, cp.CheckpointID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return domain.CheckpointDelta{}, fmt.Errorf("failed to find adjustment for checkpoint %s: %w", cp.CheckpointID, err)
	}
	if adj != nil {
		excludeID = &adj.TransactionID
	}

	result, err := s.calculator.CalculateBalance(ctx, cp.AccountID, cp.CheckpointDate, excludeID)
	if err != nil {
		return domain.CheckpointDelta{}, err
	}

	adjustment := cp.DeclaredBalance.Sub(result.Balance)

	delta := domain.CheckpointDelta{
		CheckpointID:            cp.CheckpointID,
		CheckpointDate:          cp.CheckpointDate,
		CalculatedBalanceBefore: cp.CalculatedBalance,
		CalculatedBalanceAfter:  result.Balance,
		AdjustmentBefore:        cp.AdjustmentAmount,
		AdjustmentAfter:         adjustment,
		WasReconciled:           cp.IsReconciled,
		IsReconciled:            accounting.IsReconciled(adjustment, precision),
	}

	cp.CalculatedBalance = result.Balance
	cp.AdjustmentAmount = adjustment
	cp.IsReconciled = delta.IsReconciled
	if delta.Changed() {
		cp.LastUpdatedAt = time.Now().UTC()
		cp.LastUpdatedBy = actor
		if err := s.checkpointRepo.UpdateCheckpoint(ctx, cp); err != nil {
			return domain.CheckpointDelta{}, fmt.Errorf("failed to update checkpoint %s: %w", cp.CheckpointID, err)
		}
	}

	if err := s.synthesizer.SyncAdjustmentTransaction(ctx, cp, actor); err != nil {
		return domain.CheckpointDelta{}, err
	}
	return delta, nil
}
