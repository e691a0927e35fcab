package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionOrigin records where a ledger transaction came from.
type TransactionOrigin string

const (
	OriginImported       TransactionOrigin = "IMPORTED"
	OriginManual         TransactionOrigin = "MANUAL"
	OriginSystemOpening  TransactionOrigin = "SYSTEM_OPENING"
	OriginAutoAdjustment TransactionOrigin = "AUTO_ADJUSTMENT"
)

// Transaction represents a ledger transaction row. Exactly one of
// debit_amount/credit_amount is non-null (CHECK constraint in the schema).
type Transaction struct {
	TransactionID       string            `db:"transaction_id"`
	AccountID           string            `db:"account_id"`
	TransactionDate     time.Time         `db:"transaction_date"`
	Description         string            `db:"description"`
	DebitAmount         *decimal.Decimal  `db:"debit_amount"`  // Nullable
	CreditAmount        *decimal.Decimal  `db:"credit_amount"` // Nullable
	Origin              TransactionOrigin `db:"origin"`
	IsFlagged           bool              `db:"is_flagged"`
	IsBalanceAdjustment bool              `db:"is_balance_adjustment"`
	CheckpointID        *string           `db:"checkpoint_id"` // Nullable back-reference
	AuditFields
}
