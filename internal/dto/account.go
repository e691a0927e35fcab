package dto

import (
	"time"

	"bankbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name         string             `json:"name" binding:"required"`
	AccountKind  domain.AccountKind `json:"accountKind" binding:"required,oneof=CHECKING SAVINGS CREDIT_CARD CASH INVESTMENT"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3"`
	CreditLimit  *decimal.Decimal   `json:"creditLimit"` // Optional, credit cards only
	Description  string             `json:"description"` // Optional
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	CreditLimit *decimal.Decimal `json:"creditLimit"`
	IsActive    *bool            `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID          string             `json:"accountID"`
	Name               string             `json:"name"`
	AccountKind        domain.AccountKind `json:"accountKind"`
	CurrencyCode       string             `json:"currencyCode"`
	CreditLimit        *decimal.Decimal   `json:"creditLimit,omitempty"`
	Description        string             `json:"description"`
	IsActive           bool               `json:"isActive"`
	OpeningBalanceDate *string            `json:"openingBalanceDate,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	CreatedBy          string             `json:"createdBy"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy      string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	var openingDate *string
	if acc.OpeningBalanceDate != nil {
		formatted := FormatDate(*acc.OpeningBalanceDate)
		openingDate = &formatted
	}
	return AccountResponse{
		AccountID:          acc.AccountID,
		Name:               acc.Name,
		AccountKind:        acc.AccountKind,
		CurrencyCode:       acc.CurrencyCode,
		CreditLimit:        acc.CreditLimit,
		Description:        acc.Description,
		IsActive:           acc.IsActive,
		OpeningBalanceDate: openingDate,
		CreatedAt:          acc.CreatedAt,
		CreatedBy:          acc.CreatedBy,
		LastUpdatedAt:      acc.LastUpdatedAt,
		LastUpdatedBy:      acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
