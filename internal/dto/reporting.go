package dto

import (
	"bankbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CheckpointSummaryResponse aggregates an account's reconciliation state.
type CheckpointSummaryResponse struct {
	AccountID             string          `json:"accountID"`
	TotalCheckpoints      int             `json:"totalCheckpoints"`
	ReconciledCount       int             `json:"reconciledCount"`
	UnreconciledCount     int             `json:"unreconciledCount"`
	TotalAdjustmentAmount decimal.Decimal `json:"totalAdjustmentAmount"`
	EarliestCheckpoint    *string         `json:"earliestCheckpoint,omitempty"`
	LatestCheckpoint      *string         `json:"latestCheckpoint,omitempty"`
}

// ToCheckpointSummaryResponse converts a domain summary to its response DTO
func ToCheckpointSummaryResponse(s *domain.CheckpointSummary) CheckpointSummaryResponse {
	resp := CheckpointSummaryResponse{
		AccountID:             s.AccountID,
		TotalCheckpoints:      s.TotalCheckpoints,
		ReconciledCount:       s.ReconciledCount,
		UnreconciledCount:     s.UnreconciledCount,
		TotalAdjustmentAmount: s.TotalAdjustmentAmount,
	}
	if s.EarliestCheckpoint != nil {
		formatted := FormatDate(*s.EarliestCheckpoint)
		resp.EarliestCheckpoint = &formatted
	}
	if s.LatestCheckpoint != nil {
		formatted := FormatDate(*s.LatestCheckpoint)
		resp.LatestCheckpoint = &formatted
	}
	return resp
}

// FlaggedTransactionResponse joins a flagged entry to its checkpoint context.
type FlaggedTransactionResponse struct {
	TransactionResponse
	CheckpointDate    *string          `json:"checkpointDate,omitempty"`
	DeclaredBalance   *decimal.Decimal `json:"declaredBalance,omitempty"`
	CalculatedBalance *decimal.Decimal `json:"calculatedBalance,omitempty"`
}

// ToFlaggedTransactionResponses converts flagged transactions to response DTOs
func ToFlaggedTransactionResponses(flagged []domain.FlaggedTransaction) []FlaggedTransactionResponse {
	res := make([]FlaggedTransactionResponse, len(flagged))
	for i, f := range flagged {
		resp := FlaggedTransactionResponse{
			TransactionResponse: ToTransactionResponse(&f.Transaction),
			DeclaredBalance:     f.DeclaredBalance,
			CalculatedBalance:   f.CalculatedBalance,
		}
		if f.CheckpointDate != nil {
			formatted := FormatDate(*f.CheckpointDate)
			resp.CheckpointDate = &formatted
		}
		res[i] = resp
	}
	return res
}

// BalanceResponse reports a derived balance as of a date.
type BalanceResponse struct {
	AccountID          string          `json:"accountID"`
	AsOf               string          `json:"asOf"`
	Balance            decimal.Decimal `json:"balance"`
	NonAdjustmentCount int             `json:"nonAdjustmentCount"`
}
