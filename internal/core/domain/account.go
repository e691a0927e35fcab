package domain

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

// Account represents a financial account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID    string           `json:"accountID"`   // Primary Key (UUID)
	Name         string           `json:"name"`        // User-defined name
	AccountKind  AccountKind      `json:"accountKind"` // CHECKING, SAVINGS, etc.
	CurrencyCode string           `json:"currencyCode"`
	CreditLimit  *decimal.Decimal `json:"creditLimit,omitempty"` // Only meaningful for CREDIT_CARD accounts
	Description  string           `json:"description"`
	IsActive     bool             `json:"isActive"`
	// OpeningBalanceDate is the derived ledger-start marker. It always sits
	// strictly before the earliest transaction on record and is recomputed by
	// the reconciliation engine, never edited by users. Nil while the ledger
	// is empty.
	OpeningBalanceDate *time.Time `json:"openingBalanceDate,omitempty"`
	AuditFields
}
