package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Checkpoint is a user-declared statement balance for an account as of a date.
// The reconciliation engine derives CalculatedBalance from the ledger and
// materializes any gap as a synthetic balance-adjustment transaction, so that
// no unit of balance exists without a recorded origin.
//
// A checkpoint owns at most one synthetic transaction (linked back via
// Transaction.CheckpointID); deleting the checkpoint cascades that entry.
// Unique per (account, checkpoint date).
type Checkpoint struct {
	CheckpointID   string    `json:"checkpointID"` // Primary Key (UUID)
	AccountID      string    `json:"accountID"`    // FK -> Account.accountID (Not Null)
	CheckpointDate time.Time `json:"checkpointDate"`
	// DeclaredBalance comes from the statement or the user.
	DeclaredBalance decimal.Decimal `json:"declaredBalance"`
	// CalculatedBalance is the cached ledger-derived balance as of
	// CheckpointDate, excluding only this checkpoint's own synthetic entry.
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	// AdjustmentAmount = DeclaredBalance - CalculatedBalance.
	AdjustmentAmount decimal.Decimal `json:"adjustmentAmount"`
	// IsReconciled is true iff |AdjustmentAmount| is below the account
	// currency's reconciliation threshold. It only ever changes as a side
	// effect of recomputing AdjustmentAmount.
	IsReconciled bool   `json:"isReconciled"`
	Notes        string `json:"notes"`
	AuditFields
}
