package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"bankbook/internal/apperrors"
	"bankbook/internal/core/domain"
	portssvc "bankbook/internal/core/ports/services"
	"bankbook/internal/dto"
	"bankbook/internal/handlers"
	"bankbook/internal/platform/config"
)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) UpsertCheckpoint(ctx context.Context, accountID string, date time.Time, declaredBalance decimal.Decimal, notes string, actor string) (*domain.Checkpoint, error) {
	args := m.Called(ctx, accountID, date, declaredBalance, notes, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Checkpoint), args.Error(1)
}

func (m *MockReconciliationService) DeleteCheckpoint(ctx context.Context, accountID string, checkpointID string, actor string) error {
	args := m.Called(ctx, accountID, checkpointID, actor)
	return args.Error(0)
}

func (m *MockReconciliationService) Recalculate(ctx context.Context, accountID string, opts portssvc.RecalculateOptions, actor string) ([]domain.CheckpointDelta, error) {
	args := m.Called(ctx, accountID, opts, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CheckpointDelta), args.Error(1)
}

func (m *MockReconciliationService) ListCheckpoints(ctx context.Context, accountID string, opts portssvc.ListCheckpointsOptions) ([]domain.Checkpoint, *string, error) {
	args := m.Called(ctx, accountID, opts)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Checkpoint), token, args.Error(2)
}

func (m *MockReconciliationService) CheckpointSummary(ctx context.Context, accountID string) (*domain.CheckpointSummary, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckpointSummary), args.Error(1)
}

func (m *MockReconciliationService) ListFlaggedTransactions(ctx context.Context, accountID string) ([]domain.FlaggedTransaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlaggedTransaction), args.Error(1)
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

// --- Test Suite ---
type CheckpointHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	mockSvc *MockReconciliationService
}

func (suite *CheckpointHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockSvc = new(MockReconciliationService)
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, &config.Config{}, &portssvc.ServiceContainer{
		Reconciliation: suite.mockSvc,
	})
}

func (suite *CheckpointHandlerTestSuite) performJSON(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *CheckpointHandlerTestSuite) TestUpsertCheckpoint_Success() {
	accountID := uuid.NewString()
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	declared := decimal.RequireFromString("1200000")

	expected := &domain.Checkpoint{
		CheckpointID:      uuid.NewString(),
		AccountID:         accountID,
		CheckpointDate:    date,
		DeclaredBalance:   declared,
		CalculatedBalance: decimal.RequireFromString("1000000"),
		AdjustmentAmount:  decimal.RequireFromString("200000"),
		IsReconciled:      false,
	}
	suite.mockSvc.On("UpsertCheckpoint", mock.Anything, accountID, date, declared, "bank statement", "api").
		Return(expected, nil).Once()

	w := suite.performJSON(http.MethodPut, fmt.Sprintf("/api/v1/accounts/%s/checkpoints", accountID), dto.UpsertCheckpointRequest{
		CheckpointDate:  "2024-01-10",
		DeclaredBalance: declared,
		Notes:           "bank statement",
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CheckpointResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.CheckpointID, resp.CheckpointID)
	suite.Equal("2024-01-10", resp.CheckpointDate)
	suite.False(resp.IsReconciled)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *CheckpointHandlerTestSuite) TestUpsertCheckpoint_InvalidDate() {
	accountID := uuid.NewString()

	w := suite.performJSON(http.MethodPut, fmt.Sprintf("/api/v1/accounts/%s/checkpoints", accountID), dto.UpsertCheckpointRequest{
		CheckpointDate:  "10-01-2024",
		DeclaredBalance: decimal.RequireFromString("100"),
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "UpsertCheckpoint")
}

func (suite *CheckpointHandlerTestSuite) TestDeleteCheckpoint_NotFound() {
	accountID := uuid.NewString()
	checkpointID := uuid.NewString()
	suite.mockSvc.On("DeleteCheckpoint", mock.Anything, accountID, checkpointID, "api").
		Return(fmt.Errorf("%w: no such checkpoint", apperrors.ErrNotFound)).Once()

	w := suite.performJSON(http.MethodDelete, fmt.Sprintf("/api/v1/accounts/%s/checkpoints/%s", accountID, checkpointID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *CheckpointHandlerTestSuite) TestRecalculate_EmptyBodyRecalculatesAll() {
	accountID := uuid.NewString()
	suite.mockSvc.On("Recalculate", mock.Anything, accountID, portssvc.RecalculateOptions{}, "api").
		Return([]domain.CheckpointDelta{}, nil).Once()

	w := suite.performJSON(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%s/recalculate", accountID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.RecalculateResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(accountID, resp.AccountID)
	suite.Empty(resp.Deltas)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *CheckpointHandlerTestSuite) TestRecalculate_InvalidRange() {
	accountID := uuid.NewString()
	from := "2024-02-01"
	to := "2024-01-01"

	w := suite.performJSON(http.MethodPost, fmt.Sprintf("/api/v1/accounts/%s/recalculate", accountID), dto.RecalculateRequest{
		FromDate: &from,
		ToDate:   &to,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "Recalculate")
}

func (suite *CheckpointHandlerTestSuite) TestListCheckpoints_ForwardsDateRange() {
	accountID := uuid.NewString()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	suite.mockSvc.On("ListCheckpoints", mock.Anything, accountID, portssvc.ListCheckpointsOptions{
		FromDate: &from,
		ToDate:   &to,
		Limit:    20,
	}).Return([]domain.Checkpoint{}, nil, nil).Once()

	path := fmt.Sprintf("/api/v1/accounts/%s/checkpoints?fromDate=2024-01-01&toDate=2024-03-31", accountID)
	w := suite.performJSON(http.MethodGet, path, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *CheckpointHandlerTestSuite) TestListCheckpoints_InvalidDate() {
	accountID := uuid.NewString()

	path := fmt.Sprintf("/api/v1/accounts/%s/checkpoints?fromDate=01-01-2024", accountID)
	w := suite.performJSON(http.MethodGet, path, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "ListCheckpoints")
}

func (suite *CheckpointHandlerTestSuite) TestCheckpointSummary_Success() {
	accountID := uuid.NewString()
	earliest := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	suite.mockSvc.On("CheckpointSummary", mock.Anything, accountID).
		Return(&domain.CheckpointSummary{
			AccountID:             accountID,
			TotalCheckpoints:      3,
			ReconciledCount:       2,
			UnreconciledCount:     1,
			TotalAdjustmentAmount: decimal.RequireFromString("200000"),
			EarliestCheckpoint:    &earliest,
		}, nil).Once()

	w := suite.performJSON(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/checkpoints/summary", accountID), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CheckpointSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(3, resp.TotalCheckpoints)
	suite.Require().NotNil(resp.EarliestCheckpoint)
	suite.Equal("2024-01-10", *resp.EarliestCheckpoint)
	suite.mockSvc.AssertExpectations(suite.T())
}

func TestCheckpointHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CheckpointHandlerTestSuite))
}
