package dto

import (
	"time"

	"bankbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a ledger transaction.
// Exactly one of debitAmount/creditAmount must be set; the service enforces it.
type CreateTransactionRequest struct {
	TransactionDate string                   `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	Description     string                   `json:"description"`
	DebitAmount     *decimal.Decimal         `json:"debitAmount"`
	CreditAmount    *decimal.Decimal         `json:"creditAmount"`
	Origin          domain.TransactionOrigin `json:"origin" binding:"omitempty,oneof=IMPORTED MANUAL"`
	IsFlagged       bool                     `json:"isFlagged"`
}

// UpdateTransactionRequest defines the data allowed for updating a transaction.
// Synthetic balance-adjustment entries are never updatable through this path.
type UpdateTransactionRequest struct {
	TransactionDate *string          `json:"transactionDate" binding:"omitempty,datetime=2006-01-02"`
	Description     *string          `json:"description"`
	DebitAmount     *decimal.Decimal `json:"debitAmount"`
	CreditAmount    *decimal.Decimal `json:"creditAmount"`
	IsFlagged       *bool            `json:"isFlagged"`
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID       string                   `json:"transactionID"`
	AccountID           string                   `json:"accountID"`
	TransactionDate     string                   `json:"transactionDate"`
	Description         string                   `json:"description"`
	DebitAmount         *decimal.Decimal         `json:"debitAmount,omitempty"`
	CreditAmount        *decimal.Decimal         `json:"creditAmount,omitempty"`
	Origin              domain.TransactionOrigin `json:"origin"`
	IsFlagged           bool                     `json:"isFlagged"`
	IsBalanceAdjustment bool                     `json:"isBalanceAdjustment"`
	CheckpointID        *string                  `json:"checkpointID,omitempty"`
	CreatedAt           time.Time                `json:"createdAt"`
	CreatedBy           string                   `json:"createdBy"`
	LastUpdatedAt       time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy       string                   `json:"lastUpdatedBy"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:       txn.TransactionID,
		AccountID:           txn.AccountID,
		TransactionDate:     FormatDate(txn.TransactionDate),
		Description:         txn.Description,
		DebitAmount:         txn.DebitAmount,
		CreditAmount:        txn.CreditAmount,
		Origin:              txn.Origin,
		IsFlagged:           txn.IsFlagged,
		IsBalanceAdjustment: txn.IsBalanceAdjustment,
		CheckpointID:        txn.CheckpointID,
		CreatedAt:           txn.CreatedAt,
		CreatedBy:           txn.CreatedBy,
		LastUpdatedAt:       txn.LastUpdatedAt,
		LastUpdatedBy:       txn.LastUpdatedBy,
	}
}

// ToTransactionResponses converts a slice of domain transactions to response DTOs
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
