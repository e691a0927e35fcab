package services

import (
	"context"
	"time"

	"bankbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceCalculatorSvc derives an account balance purely from recorded
// transactions. No side effects; deterministic over store state.
type BalanceCalculatorSvc interface {
	// CalculateBalance sums signed amounts over all transactions for the
	// account dated on or before asOf. When excludeTransactionID is non-nil
	// that transaction is left out of the sum; callers use this to exclude a
	// checkpoint's own synthetic entry while keeping every other
	// checkpoint's synthetic entry in scope.
	CalculateBalance(ctx context.Context, accountID string, asOf time.Time, excludeTransactionID *string) (*domain.BalanceResult, error)
}

// AdjustmentSynthesizerSvc owns the lifecycle of synthetic balance-adjustment
// transactions. It is the only component allowed to create, modify, or delete
// them.
type AdjustmentSynthesizerSvc interface {
	// SyncAdjustmentTransaction brings a checkpoint's synthetic transaction in
	// line with its adjustment amount: deleted when the checkpoint is
	// reconciled, upserted (credit for positive, debit for negative) when not.
	// Postcondition: exactly 0 or 1 synthetic transaction per checkpoint.
	SyncAdjustmentTransaction(ctx context.Context, checkpoint domain.Checkpoint, actor string) error

	// RemoveAdjustmentTransaction deletes the synthetic transaction owned by
	// a checkpoint, if any. Used when the checkpoint itself is deleted.
	RemoveAdjustmentTransaction(ctx context.Context, checkpointID string) error
}

// OpeningDateSvc maintains the derived ledger-start marker on accounts.
type OpeningDateSvc interface {
	// RefreshOpeningDate moves the account's opening-balance date to a fixed
	// offset strictly before the earliest transaction on record, or clears it
	// when the ledger is empty. Idempotent.
	RefreshOpeningDate(ctx context.Context, accountID string) error
}

// RecalculateOptions scopes a recalculation pass. Nil/empty fields select all
// checkpoints for the account.
type RecalculateOptions struct {
	FromDate      *time.Time
	ToDate        *time.Time
	CheckpointIDs []string
}

// ListCheckpointsOptions scopes a checkpoint listing. Nil dates leave the
// range open; zero limit falls back to the store default.
type ListCheckpointsOptions struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
	NextToken *string
}

// ReconciliationSvcFacade is the checkpoint manager and recalculation engine:
// the public surface of the reconciliation subsystem.
type ReconciliationSvcFacade interface {
	// UpsertCheckpoint creates or updates the checkpoint for (account, date),
	// recomputes its calculated balance (excluding its own synthetic entry),
	// syncs the synthetic transaction, and refreshes the opening date.
	// Idempotent for unchanged inputs over unchanged ledger state.
	UpsertCheckpoint(ctx context.Context, accountID string, date time.Time, declaredBalance decimal.Decimal, notes string, actor string) (*domain.Checkpoint, error)

	// DeleteCheckpoint removes a checkpoint and cascades its synthetic
	// transaction, then refreshes the opening date. Later checkpoints are not
	// recalculated automatically; callers run Recalculate to re-derive them.
	DeleteCheckpoint(ctx context.Context, accountID string, checkpointID string, actor string) error

	// Recalculate re-derives the selected checkpoints in ascending date order
	// and returns a delta per processed checkpoint. Aborts on first error;
	// already-processed checkpoints stay committed, and re-running converges.
	Recalculate(ctx context.Context, accountID string, opts RecalculateOptions, actor string) ([]domain.CheckpointDelta, error)

	// ListCheckpoints retrieves a paginated list of the account's checkpoints,
	// optionally narrowed to a date range.
	ListCheckpoints(ctx context.Context, accountID string, opts ListCheckpointsOptions) ([]domain.Checkpoint, *string, error)

	// CheckpointSummary aggregates reconciliation counts and totals.
	CheckpointSummary(ctx context.Context, accountID string) (*domain.CheckpointSummary, error)

	// ListFlaggedTransactions returns the audit view of flagged entries joined
	// back to the checkpoints that produced them.
	ListFlaggedTransactions(ctx context.Context, accountID string) ([]domain.FlaggedTransaction, error)
}
