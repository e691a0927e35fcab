package accounting

import (
	"github.com/shopspring/decimal"

	"bankbook/internal/core/domain"
)

// DefaultPrecision is assumed when an account's currency is not on record.
const DefaultPrecision = 2

// ReconciliationThreshold returns epsilon for a currency precision: one minor
// currency unit, i.e. 10^(-precision).
func ReconciliationThreshold(precision int) decimal.Decimal {
	return decimal.New(1, int32(-precision))
}

// IsReconciled reports whether an adjustment amount falls below the threshold
// for the given currency precision.
func IsReconciled(adjustment decimal.Decimal, precision int) bool {
	return adjustment.Abs().LessThan(ReconciliationThreshold(precision))
}

// SumSignedAmounts folds a transaction list into a balance. Credits increase,
// debits decrease, uniformly across account kinds; the account kind never
// flips polarity because the synthesizer's positive-delta-becomes-credit rule
// depends on it staying fixed.
func SumSignedAmounts(transactions []domain.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, txn := range transactions {
		sum = sum.Add(txn.SignedAmount())
	}
	return sum
}

// CountNonAdjustment counts the non-synthetic transactions in a list. This is
// reporting metadata only; the balance sum deliberately includes synthetic
// entries while this count skips them.
func CountNonAdjustment(transactions []domain.Transaction) int {
	count := 0
	for _, txn := range transactions {
		if !txn.IsBalanceAdjustment {
			count++
		}
	}
	return count
}
