package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Checkpoint represents a balance checkpoint row. Unique per (account_id, checkpoint_date).
type Checkpoint struct {
	CheckpointID      string          `db:"checkpoint_id"`
	AccountID         string          `db:"account_id"`
	CheckpointDate    time.Time       `db:"checkpoint_date"`
	DeclaredBalance   decimal.Decimal `db:"declared_balance"`
	CalculatedBalance decimal.Decimal `db:"calculated_balance"`
	AdjustmentAmount  decimal.Decimal `db:"adjustment_amount"`
	IsReconciled      bool            `db:"is_reconciled"`
	Notes             string          `db:"notes"`
	AuditFields
}
