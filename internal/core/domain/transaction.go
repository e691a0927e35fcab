package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionOrigin records where a ledger transaction came from.
type TransactionOrigin string

const (
	OriginImported TransactionOrigin = "IMPORTED"
	OriginManual   TransactionOrigin = "MANUAL"
	// OriginSystemOpening marks the entry seeding an account's opening balance.
	OriginSystemOpening TransactionOrigin = "SYSTEM_OPENING"
	// OriginAutoAdjustment marks synthetic entries fabricated by the
	// reconciliation engine to absorb a checkpoint's unexplained delta.
	OriginAutoAdjustment TransactionOrigin = "AUTO_ADJUSTMENT"
)

// Transaction represents a single dated debit or credit against one account.
// Exactly one of DebitAmount and CreditAmount is populated; this is a hard
// invariant enforced by Validate and by a CHECK constraint in the store.
type Transaction struct {
	TransactionID   string            `json:"transactionID"` // Primary Key (UUID)
	AccountID       string            `json:"accountID"`     // FK -> Account.accountID (Not Null)
	TransactionDate time.Time         `json:"transactionDate"`
	Description     string            `json:"description"`
	DebitAmount     *decimal.Decimal  `json:"debitAmount,omitempty"`  // Positive when set
	CreditAmount    *decimal.Decimal  `json:"creditAmount,omitempty"` // Positive when set
	Origin          TransactionOrigin `json:"origin"`
	IsFlagged       bool              `json:"isFlagged"` // Audit marker, surfaced in the flagged-transactions view
	// IsBalanceAdjustment is true only for synthetic entries owned by a
	// checkpoint. CheckpointID is the back-reference to that checkpoint.
	IsBalanceAdjustment bool    `json:"isBalanceAdjustment"`
	CheckpointID        *string `json:"checkpointID,omitempty"`
	AuditFields
}

// SignedAmount returns the transaction's contribution to the account balance:
// credits increase, debits decrease.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.CreditAmount != nil {
		return *t.CreditAmount
	}
	if t.DebitAmount != nil {
		return t.DebitAmount.Neg()
	}
	return decimal.Zero
}

// Validate checks the debit/credit mutual-exclusivity invariant and that the
// populated side is strictly positive.
func (t Transaction) Validate() error {
	if t.DebitAmount != nil && t.CreditAmount != nil {
		return ErrBothAmountsSet
	}
	if t.DebitAmount == nil && t.CreditAmount == nil {
		return ErrNoAmountSet
	}
	amount := t.DebitAmount
	if amount == nil {
		amount = t.CreditAmount
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}
	return nil
}
