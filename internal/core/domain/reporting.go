package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceResult is the outcome of a balance derivation as of a date.
type BalanceResult struct {
	Balance decimal.Decimal `json:"balance"`
	// NonAdjustmentCount counts only non-synthetic transactions up to the
	// date. The balance itself includes synthetic entries from other
	// checkpoints; the count is reporting metadata and intentionally does not.
	NonAdjustmentCount int `json:"nonAdjustmentCount"`
}

// CheckpointSummary aggregates the reconciliation state of one account.
type CheckpointSummary struct {
	AccountID             string          `json:"accountID"`
	TotalCheckpoints      int             `json:"totalCheckpoints"`
	ReconciledCount       int             `json:"reconciledCount"`
	UnreconciledCount     int             `json:"unreconciledCount"`
	TotalAdjustmentAmount decimal.Decimal `json:"totalAdjustmentAmount"` // Sum of signed adjustment amounts
	EarliestCheckpoint    *time.Time      `json:"earliestCheckpoint,omitempty"`
	LatestCheckpoint      *time.Time      `json:"latestCheckpoint,omitempty"`
}

// CheckpointDelta records how one checkpoint changed during a recalculation pass.
type CheckpointDelta struct {
	CheckpointID            string          `json:"checkpointID"`
	CheckpointDate          time.Time       `json:"checkpointDate"`
	CalculatedBalanceBefore decimal.Decimal `json:"calculatedBalanceBefore"`
	CalculatedBalanceAfter  decimal.Decimal `json:"calculatedBalanceAfter"`
	AdjustmentBefore        decimal.Decimal `json:"adjustmentBefore"`
	AdjustmentAfter         decimal.Decimal `json:"adjustmentAfter"`
	WasReconciled           bool            `json:"wasReconciled"`
	IsReconciled            bool            `json:"isReconciled"`
}

// Changed reports whether the recalculation altered the checkpoint at all.
func (d CheckpointDelta) Changed() bool {
	return !d.CalculatedBalanceBefore.Equal(d.CalculatedBalanceAfter) ||
		!d.AdjustmentBefore.Equal(d.AdjustmentAfter) ||
		d.WasReconciled != d.IsReconciled
}

// FlaggedTransaction joins a flagged ledger entry back to the checkpoint that
// produced it, for the audit view.
type FlaggedTransaction struct {
	Transaction
	CheckpointDate    *time.Time       `json:"checkpointDate,omitempty"`
	DeclaredBalance   *decimal.Decimal `json:"declaredBalance,omitempty"`
	CalculatedBalance *decimal.Decimal `json:"calculatedBalance,omitempty"`
}
