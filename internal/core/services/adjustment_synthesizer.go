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
	"bankbook/internal/dto"
	"bankbook/internal/middleware"
)

// adjustmentSynthesizer is the sole owner of synthetic balance-adjustment
// transactions. Nothing else creates, edits, or deletes them, which keeps an
// unexplained gap a first-class, queryable ledger fact instead of a hidden
// correction.
type adjustmentSynthesizer struct {
	txnRepo portsrepo.TransactionRepositoryFacade
}

// NewAdjustmentSynthesizer creates a new adjustment transaction synthesizer.
func NewAdjustmentSynthesizer(txnRepo portsrepo.TransactionRepositoryFacade) portssvc.AdjustmentSynthesizerSvc {
	return &adjustmentSynthesizer{txnRepo: txnRepo}
}

var _ portssvc.AdjustmentSynthesizerSvc = (*adjustmentSynthesizer)(nil)

// SyncAdjustmentTransaction brings the checkpoint's synthetic transaction in
// line with its adjustment amount. A reconciled checkpoint ends up with no
// synthetic transaction; an unreconciled one ends up with exactly one, dated
// at the checkpoint date, credit for a positive adjustment (unexplained
// income) and debit for a negative one (unexplained expense). Never both.
func (s *adjustmentSynthesizer) SyncAdjustmentTransaction(ctx context.Context, checkpoint domain.Checkpoint, actor string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.txnRepo.FindAdjustmentByCheckpointID(ctx, checkpoint.CheckpointID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to find adjustment transaction for checkpoint %s: %w", checkpoint.CheckpointID, err)
	}

	if checkpoint.IsReconciled {
		if existing == nil {
			return nil
		}
		if err := s.txnRepo.DeleteTransaction(ctx, existing.TransactionID); err != nil {
			return fmt.Errorf("failed to delete adjustment transaction %s: %w", existing.TransactionID, err)
		}
		logger.Info("Adjustment transaction removed, checkpoint reconciled",
			slog.String("checkpoint_id", checkpoint.CheckpointID),
			slog.String("transaction_id", existing.TransactionID))
		return nil
	}

	now := time.Now().UTC()
	checkpointID := checkpoint.CheckpointID
	txn := domain.Transaction{
		AccountID:           checkpoint.AccountID,
		TransactionDate:     checkpoint.CheckpointDate,
		Description:         fmt.Sprintf("Balance adjustment for checkpoint %s", dto.FormatDate(checkpoint.CheckpointDate)),
		Origin:              domain.OriginAutoAdjustment,
		IsFlagged:           true,
		IsBalanceAdjustment: true,
		CheckpointID:        &checkpointID,
	}

	amount := checkpoint.AdjustmentAmount
	if amount.IsPositive() {
		txn.CreditAmount = &amount
	} else {
		absAmount := amount.Abs()
		txn.DebitAmount = &absAmount
	}

	// A repeated pass over an unchanged checkpoint must be write-free, or
	// every recalculation would churn the entry's audit fields.
	if existing != nil && adjustmentUpToDate(existing, txn) {
		return nil
	}

	if existing == nil {
		txn.TransactionID = uuid.NewString()
		txn.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		}
		if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to save adjustment transaction for checkpoint %s: %w", checkpoint.CheckpointID, err)
		}
	} else {
		txn.TransactionID = existing.TransactionID
		txn.AuditFields = domain.AuditFields{
			CreatedAt:     existing.CreatedAt,
			CreatedBy:     existing.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		}
		if err := s.txnRepo.UpdateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to update adjustment transaction %s: %w", txn.TransactionID, err)
		}
	}

	logger.Info("Adjustment transaction synced",
		slog.String("checkpoint_id", checkpoint.CheckpointID),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("adjustment_amount", amount.String()))
	return nil
}

// adjustmentUpToDate reports whether the stored synthetic entry already
// carries the target date and debit/credit amounts.
func adjustmentUpToDate(existing *domain.Transaction, target domain.Transaction) bool {
	return existing.TransactionDate.Equal(target.TransactionDate) &&
		amountsEqual(existing.DebitAmount, target.DebitAmount) &&
		amountsEqual(existing.CreditAmount, target.CreditAmount)
}

func amountsEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// RemoveAdjustmentTransaction deletes the synthetic transaction owned by a
// checkpoint, if one exists. Called when the checkpoint itself is deleted.
func (s *adjustmentSynthesizer) RemoveAdjustmentTransaction(ctx context.Context, checkpointID string) error {
	existing, err := s.txnRepo.FindAdjustmentByCheckpointID(ctx, checkpointID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find adjustment transaction for checkpoint %s: %w", checkpointID, err)
	}

	if err := s.txnRepo.DeleteTransaction(ctx, existing.TransactionID); err != nil {
		return fmt.Errorf("failed to delete adjustment transaction %s: %w", existing.TransactionID, err)
	}
	return nil
}
