package repositories

import (
	"context"
	"time"

	"bankbook/internal/core/domain"
)

// TransactionReader defines read operations for ledger transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsUpTo retrieves every transaction for an account dated on
	// or before asOf, ordered by (transaction_date, created_at) ascending.
	// When excludeTransactionID is non-nil that single transaction is skipped;
	// the balance calculator uses this to exclude a checkpoint's own synthetic
	// entry while keeping every other checkpoint's entry in the sum.
	ListTransactionsUpTo(ctx context.Context, accountID string, asOf time.Time, excludeTransactionID *string) ([]domain.Transaction, error)

	// ListTransactionsByAccount retrieves a paginated list of transactions for
	// an account using token-based pagination. Returns the transactions, a
	// token for the next page, and an error.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// FindAdjustmentByCheckpointID retrieves the synthetic balance-adjustment
	// transaction owned by a checkpoint, or ErrNotFound when none exists.
	FindAdjustmentByCheckpointID(ctx context.Context, checkpointID string) (*domain.Transaction, error)

	// FindEarliestTransactionDate returns the date of the account's earliest
	// transaction, real or synthetic, or nil when the ledger is empty.
	FindEarliestTransactionDate(ctx context.Context, accountID string) (*time.Time, error)

	// ListFlaggedTransactions retrieves all flagged transactions for an account,
	// ordered by transaction date ascending.
	ListFlaggedTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction updates an existing transaction.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteTransaction removes a transaction by ID.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
