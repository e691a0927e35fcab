package services

import (
	"context"

	"bankbook/internal/core/domain"
	"bankbook/internal/dto"
)

// TransactionSvcFacade defines the service operations for user-facing ledger
// transactions. Synthetic balance-adjustment entries are out of its reach;
// only the adjustment synthesizer touches those.
//
// Every committed mutation triggers a recalculation of checkpoints dated on or
// after the affected transaction date, per the reconciliation contract.
type TransactionSvcFacade interface {
	// CreateTransaction records a new transaction against an account.
	CreateTransaction(ctx context.Context, accountID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// GetTransactionByID retrieves a transaction belonging to the account.
	GetTransactionByID(ctx context.Context, accountID string, transactionID string) (*domain.Transaction, error)

	// UpdateTransaction applies partial updates to a non-synthetic transaction.
	UpdateTransaction(ctx context.Context, accountID string, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error)

	// DeleteTransaction removes a non-synthetic transaction.
	DeleteTransaction(ctx context.Context, accountID string, transactionID string, requestingUserID string) error

	// ListTransactions retrieves a paginated list of the account's transactions.
	ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
