package services

import (
	"context"

	"bankbook/internal/core/domain"
	"bankbook/internal/dto"
)

// AccountSvcFacade defines the service operations for accounts.
type AccountSvcFacade interface {
	// CreateAccount creates a new account after validating its currency.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves an account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// UpdateAccount applies partial updates to an account.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)

	// DeactivateAccount marks an account inactive.
	DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error
}
