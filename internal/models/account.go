package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind classifies the real-world account a ledger tracks.
type AccountKind string

const (
	Checking   AccountKind = "CHECKING"
	Savings    AccountKind = "SAVINGS"
	CreditCard AccountKind = "CREDIT_CARD"
	Cash       AccountKind = "CASH"
	Investment AccountKind = "INVESTMENT"
)

// Account represents a financial account row.
// Note: OpeningBalanceDate is derived by the reconciliation engine, never user-set.
type Account struct {
	AccountID          string           `db:"account_id"`
	Name               string           `db:"name"`
	AccountKind        AccountKind      `db:"account_kind"`
	CurrencyCode       string           `db:"currency_code"`
	CreditLimit        *decimal.Decimal `db:"credit_limit"` // Nullable
	Description        string           `db:"description"`
	IsActive           bool             `db:"is_active"`
	OpeningBalanceDate *time.Time       `db:"opening_balance_date"` // Nullable, derived
	AuditFields
}
