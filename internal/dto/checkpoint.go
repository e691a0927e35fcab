package dto

import (
	"fmt"
	"time"

	"bankbook/internal/apperrors"
	"bankbook/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// UpsertCheckpointRequest declares a statement balance for an account at a date.
// The statement import pipeline and the manual reconciliation screen both feed
// this shape.
type UpsertCheckpointRequest struct {
	CheckpointDate  string          `json:"checkpointDate" validate:"required,datetime=2006-01-02"`
	DeclaredBalance decimal.Decimal `json:"declaredBalance"`
	Notes           string          `json:"notes"`
}

// Validate checks the request shape before it reaches the service.
func (r UpsertCheckpointRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return nil
}

// RecalculateRequest scopes a recalculation pass. All fields optional; an
// empty request recalculates every checkpoint for the account.
type RecalculateRequest struct {
	FromDate      *string  `json:"fromDate" validate:"omitempty,datetime=2006-01-02"`
	ToDate        *string  `json:"toDate" validate:"omitempty,datetime=2006-01-02"`
	CheckpointIDs []string `json:"checkpointIDs" validate:"omitempty,dive,uuid4"`
}

// Validate checks field formats and that the date range is well-formed.
func (r RecalculateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if r.FromDate != nil && r.ToDate != nil && *r.FromDate > *r.ToDate {
		return fmt.Errorf("%w: fromDate %s is after toDate %s", apperrors.ErrValidation, *r.FromDate, *r.ToDate)
	}
	return nil
}

// DateRange parses the optional bounds into time values.
func (r RecalculateRequest) DateRange() (from *time.Time, to *time.Time, err error) {
	if r.FromDate != nil {
		parsed, err := ParseDate(*r.FromDate)
		if err != nil {
			return nil, nil, err
		}
		from = &parsed
	}
	if r.ToDate != nil {
		parsed, err := ParseDate(*r.ToDate)
		if err != nil {
			return nil, nil, err
		}
		to = &parsed
	}
	return from, to, nil
}

// CheckpointResponse defines the data returned for a checkpoint.
type CheckpointResponse struct {
	CheckpointID      string          `json:"checkpointID"`
	AccountID         string          `json:"accountID"`
	CheckpointDate    string          `json:"checkpointDate"`
	DeclaredBalance   decimal.Decimal `json:"declaredBalance"`
	CalculatedBalance decimal.Decimal `json:"calculatedBalance"`
	AdjustmentAmount  decimal.Decimal `json:"adjustmentAmount"`
	IsReconciled      bool            `json:"isReconciled"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"createdAt"`
	CreatedBy         string          `json:"createdBy"`
	LastUpdatedAt     time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy     string          `json:"lastUpdatedBy"`
}

// ToCheckpointResponse converts a domain.Checkpoint to its response DTO
func ToCheckpointResponse(cp *domain.Checkpoint) CheckpointResponse {
	return CheckpointResponse{
		CheckpointID:      cp.CheckpointID,
		AccountID:         cp.AccountID,
		CheckpointDate:    FormatDate(cp.CheckpointDate),
		DeclaredBalance:   cp.DeclaredBalance,
		CalculatedBalance: cp.CalculatedBalance,
		AdjustmentAmount:  cp.AdjustmentAmount,
		IsReconciled:      cp.IsReconciled,
		Notes:             cp.Notes,
		CreatedAt:         cp.CreatedAt,
		CreatedBy:         cp.CreatedBy,
		LastUpdatedAt:     cp.LastUpdatedAt,
		LastUpdatedBy:     cp.LastUpdatedBy,
	}
}

// ToCheckpointResponses converts a slice of domain checkpoints to response DTOs
func ToCheckpointResponses(cps []domain.Checkpoint) []CheckpointResponse {
	res := make([]CheckpointResponse, len(cps))
	for i, cp := range cps {
		res[i] = ToCheckpointResponse(&cp)
	}
	return res
}

// ListCheckpointsParams defines query parameters for listing checkpoints.
type ListCheckpointsParams struct {
	FromDate  *string `form:"fromDate"`
	ToDate    *string `form:"toDate"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// DateRange parses the optional bounds into time values.
func (p ListCheckpointsParams) DateRange() (from *time.Time, to *time.Time, err error) {
	if p.FromDate != nil {
		parsed, err := ParseDate(*p.FromDate)
		if err != nil {
			return nil, nil, err
		}
		from = &parsed
	}
	if p.ToDate != nil {
		parsed, err := ParseDate(*p.ToDate)
		if err != nil {
			return nil, nil, err
		}
		to = &parsed
	}
	return from, to, nil
}

// ListCheckpointsResponse wraps a page of checkpoints.
type ListCheckpointsResponse struct {
	Checkpoints []CheckpointResponse `json:"checkpoints"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// CheckpointDeltaResponse reports how one checkpoint changed during a
// recalculation pass.
type CheckpointDeltaResponse struct {
	CheckpointID            string          `json:"checkpointID"`
	CheckpointDate          string          `json:"checkpointDate"`
	CalculatedBalanceBefore decimal.Decimal `json:"calculatedBalanceBefore"`
	CalculatedBalanceAfter  decimal.Decimal `json:"calculatedBalanceAfter"`
	AdjustmentBefore        decimal.Decimal `json:"adjustmentBefore"`
	AdjustmentAfter         decimal.Decimal `json:"adjustmentAfter"`
	WasReconciled           bool            `json:"wasReconciled"`
	IsReconciled            bool            `json:"isReconciled"`
}

// ToCheckpointDeltaResponses converts recalculation deltas to response DTOs
func ToCheckpointDeltaResponses(deltas []domain.CheckpointDelta) []CheckpointDeltaResponse {
	res := make([]CheckpointDeltaResponse, len(deltas))
	for i, d := range deltas {
		res[i] = CheckpointDeltaResponse{
			CheckpointID:            d.CheckpointID,
			CheckpointDate:          FormatDate(d.CheckpointDate),
			CalculatedBalanceBefore: d.CalculatedBalanceBefore,
			CalculatedBalanceAfter:  d.CalculatedBalanceAfter,
			AdjustmentBefore:        d.AdjustmentBefore,
			AdjustmentAfter:         d.AdjustmentAfter,
			WasReconciled:           d.WasReconciled,
			IsReconciled:            d.IsReconciled,
		}
	}
	return res
}

// RecalculateResponse wraps the deltas from a recalculation pass.
type RecalculateResponse struct {
	AccountID string                    `json:"accountID"`
	Deltas    []CheckpointDeltaResponse `json:"deltas"`
}
