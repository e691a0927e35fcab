package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bankbook/internal/apperrors"
	"bankbook/internal/core/domain"
	portsrepo "bankbook/internal/core/ports/repositories"
	portssvc "bankbook/internal/core/ports/services"
	"bankbook/internal/dto"
	"bankbook/internal/middleware"
)

// transactionService implements user-facing ledger transaction operations.
// Synthetic balance-adjustment entries are off limits here; every mutation is
// followed by a recalculation of checkpoints dated on or after the affected
// transaction date, so cached checkpoint balances never go stale.
type transactionService struct {
	txnRepo        portsrepo.TransactionRepositoryFacade
	accountRepo    portsrepo.AccountReader
	reconciliation portssvc.ReconciliationSvcFacade
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	reconciliation portssvc.ReconciliationSvcFacade,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:        txnRepo,
		accountRepo:    accountRepo,
		reconciliation: reconciliation,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction records a new transaction and recalculates checkpoints
// dated on or after it.
func (s *transactionService) CreateTransaction(ctx context.Context, accountID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to read account %s: %w", accountID, err)
	}

	txnDate, err := dto.ParseDate(req.TransactionDate)
	if err != nil {
		return nil, err
	}

	origin := req.Origin
	if origin == "" {
		origin = domain.OriginManual
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       accountID,
		TransactionDate: txnDate,
		Description:     req.Description,
		DebitAmount:     req.DebitAmount,
		CreditAmount:    req.CreditAmount,
		Origin:          origin,
		IsFlagged:       req.IsFlagged,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	if err := s.recalculateFrom(ctx, accountID, txnDate, creatorUserID); err != nil {
		return nil, err
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", accountID),
		slog.Time("transaction_date", txnDate))
	return &txn, nil
}

// GetTransactionByID retrieves a transaction belonging to the account.
func (s *transactionService) GetTransactionByID(ctx context.Context, accountID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.findOwnedTransaction(ctx, accountID, transactionID)
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// UpdateTransaction applies partial updates to a non-synthetic transaction and
// recalculates checkpoints from the earliest date the change touches. A date
// move affects checkpoints from both the old and the new position.
func (s *transactionService) UpdateTransaction(ctx context.Context, accountID string, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error) {
	txn, err := s.findOwnedTransaction(ctx, accountID, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsBalanceAdjustment {
		return nil, fmt.Errorf("%w: synthetic balance-adjustment transactions cannot be edited", apperrors.ErrValidation)
	}

	earliestAffected := txn.TransactionDate
	if req.TransactionDate != nil {
		newDate, err := dto.ParseDate(*req.TransactionDate)
		if err != nil {
			return nil, err
		}
		if newDate.Before(earliestAffected) {
			earliestAffected = newDate
		}
		txn.TransactionDate = newDate
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.DebitAmount != nil {
		txn.DebitAmount = req.DebitAmount
		txn.CreditAmount = nil
	}
	if req.CreditAmount != nil {
		txn.CreditAmount = req.CreditAmount
		txn.DebitAmount = nil
	}
	if req.IsFlagged != nil {
		txn.IsFlagged = *req.IsFlagged
	}
	if req.DebitAmount != nil && req.CreditAmount != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, domain.ErrBothAmountsSet)
	}
	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	txn.LastUpdatedAt = time.Now().UTC()
	txn.LastUpdatedBy = requestingUserID

	if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}

	if err := s.recalculateFrom(ctx, accountID, earliestAffected, requestingUserID); err != nil {
		return nil, err
	}
	return txn, nil
}

// DeleteTransaction removes a non-synthetic transaction and recalculates
// checkpoints dated on or after it.
func (s *transactionService) DeleteTransaction(ctx context.Context, accountID string, transactionID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.findOwnedTransaction(ctx, accountID, transactionID)
	if err != nil {
		return err
	}
	if txn.IsBalanceAdjustment {
		return fmt.Errorf("%w: synthetic balance-adjustment transactions cannot be deleted directly", apperrors.ErrValidation)
	}

	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}

	if err := s.recalculateFrom(ctx, accountID, txn.TransactionDate, requestingUserID); err != nil {
		return err
	}

	logger.Info("Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("account_id", accountID))
	return nil
}

// ListTransactions retrieves a paginated list of the account's transactions.
func (s *transactionService) ListTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, nil, fmt.Errorf("failed to read account %s: %w", accountID, err)
	}
	txns, token, err := s.txnRepo.ListTransactionsByAccount(ctx, accountID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}
	return txns, token, nil
}

func (s *transactionService) findOwnedTransaction(ctx context.Context, accountID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.AccountID != accountID {
		return nil, fmt.Errorf("%w: transaction %s does not belong to account %s", apperrors.ErrNotFound, transactionID, accountID)
	}
	return txn, nil
}

// recalculateFrom re-derives checkpoints dated on or after fromDate. Earlier
// checkpoints cannot have been affected by the mutation.
func (s *transactionService) recalculateFrom(ctx context.Context, accountID string, fromDate time.Time, actor string) error {
	_, err := s.reconciliation.Recalculate(ctx, accountID, portssvc.RecalculateOptions{FromDate: &fromDate}, actor)
	return err
}
