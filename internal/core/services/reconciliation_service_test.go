package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"bankbook/internal/apperrors"
	"bankbook/internal/core/domain"
	portssvc "bankbook/internal/core/ports/services"
	"bankbook/internal/core/services"
	"bankbook/internal/dto"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func day(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

type ReconciliationServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *memStore
	container *portssvc.ServiceContainer
	accountID string
	actor     string
}

func (s *ReconciliationServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = newMemStore()
	s.container = services.NewServiceContainer(s.store.provider(), 24*time.Hour)
	s.actor = uuid.NewString()

	err := s.store.SaveCurrency(s.ctx, domain.Currency{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2})
	s.Require().NoError(err)

	account, err := s.container.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Name:         "Main Checking",
		AccountKind:  domain.Checking,
		CurrencyCode: "USD",
	}, s.actor)
	s.Require().NoError(err)
	s.accountID = account.AccountID
}

// credit records a manual credit through the transaction service, exercising
// the post-mutation recalculation hook along the way.
func (s *ReconciliationServiceTestSuite) credit(date string, amount string) *domain.Transaction {
	amt := dec(amount)
	txn, err := s.container.Transaction.CreateTransaction(s.ctx, s.accountID, dto.CreateTransactionRequest{
		TransactionDate: date,
		Description:     "manual credit",
		CreditAmount:    &amt,
	}, s.actor)
	s.Require().NoError(err)
	return txn
}

func (s *ReconciliationServiceTestSuite) adjustmentFor(checkpointID string) *domain.Transaction {
	txn, err := s.store.FindAdjustmentByCheckpointID(s.ctx, checkpointID)
	s.Require().NoError(err)
	return txn
}

func (s *ReconciliationServiceTestSuite) TestUpsertCheckpoint_CreatesCreditAdjustment() {
	s.credit("2024-01-05", "1000000")

	cp, err := s.container.Reconciliation.UpsertCheckpoint(s.ctx, s.accountID, day("2024-01-10"), dec("1200000"), "bank statement", s.actor)
	s.Require().NoError(err)

	s.True(cp.CalculatedBalance.Equal(dec("1000000")))
	s.True(cp.AdjustmentAmount.Equal(dec("200000")))
	s.False(cp.IsReconciled)
	s.Equal("bank statement", cp.Notes)

	adj := s.adjustmentFor(cp.CheckpointID)
	s.Require().NotNil(adj.CreditAmount)
	s.Nil(adj.DebitAmount)
	s.True(adj.CreditAmount.Equal(dec("200000")))
	s.Equal(domain.OriginAutoAdjustment, adj.Origin)
	s.True(adj.IsFlagged)
	s.True(adj.IsBalanceAdjustment)
	s.True(adj.TransactionDate.Equal(day("2024-01-10")))
}

func (s *ReconciliationServiceTestSuite) TestUpsertCheckpoint_CreatesDebitAdjustment() {
	s.credit("2024-01-05", "1000000")

	cp, err := s.container.Reconciliation.UpsertCheckpoint(s.ctx, s.accountID, day("2024-01-10"), dec("950000"), "", s.actor)
	s.Require().NoError(err)

	s.True(cp.AdjustmentAmount.Equal(dec("-50000")))
	s.False(cp.IsReconciled)

	adj := s.adjustmentFor(cp.CheckpointID)
	s.Require().NotNil(adj.DebitAmount)
	s.Nil(adj.CreditAmount)
	s.True(adj.DebitAmount.Equal(dec("50000")))
}

func (s *ReconciliationServiceTestSuite) TestUpsertCheckpoint_ReconciledHasNoAdjustment() {
	s.credit("2024-01-05", "1000000")

	cp, err := s.container.Reconciliation.UpsertCheckpoint(s.ctx, s.accountID, day("2024-01-10"), dec("1000000"), "", s.actor)
	s.Require().NoError(err)

	s.True(cp.IsReconciled)
	s.True(cp.AdjustmentAmount.IsZero())

	_, err = s.store.FindAdjustmentByCheckpointID(s.ctx, cp.CheckpointID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReconciliationServiceTestSuite) TestUpsertCheckpoint_Idempotent() {
	s.credit("2024-01-05", "1000000")

	first, err := s.container.Reconciliation.UpsertCheckpoint(s.ctx, s.accountID, day("2024-01-10"), dec("1200000"), "", s.actor)
	s.Require().NoError(err)
	second, err := s.container.Reconciliation.UpsertCheckpoint(s.ctx, s.accountID, day("2024-01-10"), dec("1200000"), "", s.actor)
	s.Require().NoError(err)

	s.Equal(first.CheckpointID, second.CheckpointID)
	s.True(first.CalculatedBalance.Equal(second.CalculatedBalance))
	s.True(first.AdjustmentAmount.Equal(second.AdjustmentAmount))

	count := 0
	for _, txn := range s.store.transactions {
		if txn.IsBalanceAdjustment {
			count++
		}
	}
	s.Equal(1, count)
}

func (s *ReconciliationServiceTestSuite) TestUpsertCheckpoint_ExcludesOwnAdjustmentOnRevision() {
	s.credit("2024-01-05", "1000000")
	s.upsertCheckpoint("2024-01-10", "1200000")

	// Revising the declared balance must recompute against the ledger without
	// the checkpoint's own prior synthetic entry, or the gap would compound.
	revised, err := s.container.Reconciliation.UpsertCheckpoint(s.ctx, s.accountID, day("2024-01-10"), dec("1300000"), "", s.actor)
	s.Require().NoError(err)

	s.True(revised.CalculatedBalance.Equal(dec("1000000")))
	s.True(revised.AdjustmentAmount.Equal(dec("300000")))

	adj := s.adjustmentFor(revised.CheckpointID)
	s.True(adj.CreditAmount.Equal(dec("300000")))
}

func (s *ReconciliationServiceTestSuite) upsertCheckpoint(date string, declared string) *domain.Checkpoint {
	cp, err := s.container.Reconciliation.UpsertCheckpoint(s.ctx, s.accountID, day(date), dec(declared), "", s.actor)
	s.Require().NoError(err)
	return cp
}

func (s *ReconciliationServiceTestSuite) TestCheckpointChaining() {
	s.credit("2024-01-05", "1000000")

	first := s.upsertCheckpoint("2024-01-10", "1200000")
	s.False(first.IsReconciled)

	// The second checkpoint sees the first one's synthetic 200000 credit as an
	// ordinary ledger fact, so the declared balance is fully explained.
	second := s.upsertCheckpoint("2024-02-01", "1200000")
	s.True(second.CalculatedBalance.Equal(dec("1200000")))
	s.True(second.AdjustmentAmount.IsZero())
	s.True(second.IsReconciled)

	_, err := s.store.FindAdjustmentByCheckpointID(s.ctx, second.CheckpointID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReconciliationServiceTestSuite) TestRecalculate_ConvergesToNoDeltas() {
	s.credit("2024-01-05", "1000000")
	s.upsertCheckpoint("2024-01-10", "1200000")
	s.upsertCheckpoint("2024-02-01", "1200000")

	deltas, err := s.container.Reconciliation.Recalculate(s.ctx, s.accountID, portssvc.RecalculateOptions{}, s.actor)
	s.Require().NoError(err)
	s.Empty(deltas)
}

func (s *ReconciliationServiceTestSuite) TestRecalculate_AfterCheckpointDeletion() {
	s.credit("2024-01-05", "1000000")
	first := s.upsertCheckpoint("2024-01-10", "1200000")
	second := s.upsertCheckpoint("2024-02-01", "1200000")
	s.True(second.IsReconciled)

	err := s.container.Reconciliation.DeleteCheckpoint(s.ctx, s.accountID, first.CheckpointID, s.actor)
	s.Require().NoError(err)

	// The deleted checkpoint's synthetic 200000 credit is gone, so the second
	// checkpoint's cached balance is stale until a recalculation pass.
	deltas, err := s.container.Reconciliation.Recalculate(s.ctx, s.accountID, portssvc.RecalculateOptions{}, s.actor)
	s.Require().NoError(err)
	s.Require().Len(deltas, 1)

	delta := deltas[0]
	s.Equal(second.CheckpointID, delta.CheckpointID)
	s.True(delta.CalculatedBalanceBefore.Equal(dec("1200000")))
	s.True(delta.CalculatedBalanceAfter.Equal(dec("1000000")))
	s.True(delta.WasReconciled)
	s.False(delta.IsReconciled)

	adj := s.adjustmentFor(second.CheckpointID)
	s.True(adj.CreditAmount.Equal(dec("200000")))
}

func (s *ReconciliationServiceTestSuite) TestRecalculate_InvalidRange() {
	from := day("2024-02-01")
	to := day("2024-01-01")
	_, err := s.container.Reconciliation.Recalculate(s.ctx, s.accountID, portssvc.RecalculateOptions{
		FromDate: &from,
		ToDate:   &to,
	}, s.actor)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReconciliationServiceTestSuite) TestTransactionMutationRecalculatesLaterCheckpoints() {
	s.credit("2024-01-05", "1000000")
	cp := s.upsertCheckpoint("2024-01-10", "1000000")
	s.True(cp.IsReconciled)

	// A new transaction dated before the checkpoint changes its calculated
	// balance; the creation hook must repair the checkpoint immediately.
	s.credit("2024-01-07", "50000")

	updated, err := s.store.FindCheckpointByID(s.ctx, cp.CheckpointID)
	s.Require().NoError(err)
	s.True(updated.CalculatedBalance.Equal(dec("1050000")))
	s.True(updated.AdjustmentAmount.Equal(dec("-50000")))
	s.False(updated.IsReconciled)

	adj := s.adjustmentFor(cp.CheckpointID)
	s.True(adj.DebitAmount.Equal(dec("50000")))
}

func (s *ReconciliationServiceTestSuite) TestDeleteCheckpoint_CascadesAdjustment() {
	s.credit("2024-01-05", "1000000")
	cp := s.upsertCheckpoint("2024-01-10", "1200000")
	adj := s.adjustmentFor(cp.CheckpointID)

	err := s.container.Reconciliation.DeleteCheckpoint(s.ctx, s.accountID, cp.CheckpointID, s.actor)
	s.Require().NoError(err)

	_, err = s.store.FindCheckpointByID(s.ctx, cp.CheckpointID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.store.FindTransactionByID(s.ctx, adj.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReconciliationServiceTestSuite) TestDeleteCheckpoint_WrongAccount() {
	s.credit("2024-01-05", "1000000")
	cp := s.upsertCheckpoint("2024-01-10", "1200000")

	err := s.container.Reconciliation.DeleteCheckpoint(s.ctx, uuid.NewString(), cp.CheckpointID, s.actor)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReconciliationServiceTestSuite) TestOpeningDateFollowsEarliestTransaction() {
	account, err := s.container.Account.GetAccountByID(s.ctx, s.accountID)
	s.Require().NoError(err)
	s.Nil(account.OpeningBalanceDate)

	s.credit("2024-01-05", "1000000")

	account, err = s.container.Account.GetAccountByID(s.ctx, s.accountID)
	s.Require().NoError(err)
	s.Require().NotNil(account.OpeningBalanceDate)
	s.True(account.OpeningBalanceDate.Equal(day("2024-01-04")))

	// A synthetic entry older than any real transaction moves the marker too.
	s.upsertCheckpoint("2024-01-02", "500")
	account, err = s.container.Account.GetAccountByID(s.ctx, s.accountID)
	s.Require().NoError(err)
	s.Require().NotNil(account.OpeningBalanceDate)
	s.True(account.OpeningBalanceDate.Equal(day("2024-01-01")))
}

func (s *ReconciliationServiceTestSuite) TestReconciliationThresholdUsesCurrencyPrecision() {
	s.credit("2024-01-05", "1000000")

	// A sub-cent gap is below one minor unit of USD and counts as reconciled.
	cp := s.upsertCheckpoint("2024-01-10", "1000000.005")
	s.True(cp.IsReconciled)

	cp = s.upsertCheckpoint("2024-01-11", "1000000.01")
	s.False(cp.IsReconciled)
}

func (s *ReconciliationServiceTestSuite) TestCheckpointSummary() {
	s.credit("2024-01-05", "1000000")
	s.upsertCheckpoint("2024-01-10", "1200000")
	s.upsertCheckpoint("2024-02-01", "1200000")

	summary, err := s.container.Reconciliation.CheckpointSummary(s.ctx, s.accountID)
	s.Require().NoError(err)

	s.Equal(2, summary.TotalCheckpoints)
	s.Equal(1, summary.ReconciledCount)
	s.Equal(1, summary.UnreconciledCount)
	s.True(summary.TotalAdjustmentAmount.Equal(dec("200000")))
	s.Require().NotNil(summary.EarliestCheckpoint)
	s.Require().NotNil(summary.LatestCheckpoint)
	s.True(summary.EarliestCheckpoint.Equal(day("2024-01-10")))
	s.True(summary.LatestCheckpoint.Equal(day("2024-02-01")))
}

func (s *ReconciliationServiceTestSuite) TestListFlaggedTransactions_JoinsCheckpoint() {
	s.credit("2024-01-05", "1000000")
	cp := s.upsertCheckpoint("2024-01-10", "1200000")

	flagged, err := s.container.Reconciliation.ListFlaggedTransactions(s.ctx, s.accountID)
	s.Require().NoError(err)
	s.Require().Len(flagged, 1)

	entry := flagged[0]
	s.True(entry.IsBalanceAdjustment)
	s.Require().NotNil(entry.CheckpointDate)
	s.True(entry.CheckpointDate.Equal(cp.CheckpointDate))
	s.Require().NotNil(entry.DeclaredBalance)
	s.True(entry.DeclaredBalance.Equal(dec("1200000")))
	s.Require().NotNil(entry.CalculatedBalance)
	s.True(entry.CalculatedBalance.Equal(dec("1000000")))
}

func (s *ReconciliationServiceTestSuite) TestListCheckpoints_Paginated() {
	s.credit("2024-01-05", "1000000")
	s.upsertCheckpoint("2024-01-10", "1000000")
	s.upsertCheckpoint("2024-02-01", "1000000")
	s.upsertCheckpoint("2024-03-01", "1000000")

	page, token, err := s.container.Reconciliation.ListCheckpoints(s.ctx, s.accountID, portssvc.ListCheckpointsOptions{Limit: 2})
	s.Require().NoError(err)
	s.Len(page, 2)
	s.Require().NotNil(token)
	s.True(page[0].CheckpointDate.After(page[1].CheckpointDate))

	rest, token, err := s.container.Reconciliation.ListCheckpoints(s.ctx, s.accountID, portssvc.ListCheckpointsOptions{Limit: 2, NextToken: token})
	s.Require().NoError(err)
	s.Len(rest, 1)
	s.Nil(token)
}

func (s *ReconciliationServiceTestSuite) TestListCheckpoints_FilteredByDateRange() {
	s.credit("2024-01-05", "1000000")
	s.upsertCheckpoint("2024-01-10", "1000000")
	s.upsertCheckpoint("2024-02-01", "1000000")
	s.upsertCheckpoint("2024-03-01", "1000000")

	from := day("2024-01-15")
	to := day("2024-02-15")
	page, token, err := s.container.Reconciliation.ListCheckpoints(s.ctx, s.accountID, portssvc.ListCheckpointsOptions{
		FromDate: &from,
		ToDate:   &to,
		Limit:    10,
	})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.True(page[0].CheckpointDate.Equal(day("2024-02-01")))
	s.Nil(token)

	_, _, err = s.container.Reconciliation.ListCheckpoints(s.ctx, s.accountID, portssvc.ListCheckpointsOptions{
		FromDate: &to,
		ToDate:   &from,
	})
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReconciliationServiceTestSuite) TestRecalculate_UnchangedCheckpointKeepsAdjustmentAudit() {
	s.credit("2024-01-05", "1000000")
	cp := s.upsertCheckpoint("2024-01-10", "1200000")

	before := s.adjustmentFor(cp.CheckpointID)

	deltas, err := s.container.Reconciliation.Recalculate(s.ctx, s.accountID, portssvc.RecalculateOptions{}, "sweeper")
	s.Require().NoError(err)
	s.Empty(deltas)

	// A pass over an unchanged ledger must not rewrite the synthetic entry.
	after := s.adjustmentFor(cp.CheckpointID)
	s.Equal(before.TransactionID, after.TransactionID)
	s.Equal(before.LastUpdatedBy, after.LastUpdatedBy)
	s.True(before.LastUpdatedAt.Equal(after.LastUpdatedAt))
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}

func TestNormalizedCheckpointDateMatchesExisting(t *testing.T) {
	store := newMemStore()
	container := services.NewServiceContainer(store.provider(), 24*time.Hour)
	ctx := context.Background()
	actor := uuid.NewString()

	err := store.SaveCurrency(ctx, domain.Currency{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2})
	assert.NoError(t, err)
	account, err := container.Account.CreateAccount(ctx, dto.CreateAccountRequest{
		Name:         "Wallet",
		AccountKind:  domain.Cash,
		CurrencyCode: "USD",
	}, actor)
	assert.NoError(t, err)

	first, err := container.Reconciliation.UpsertCheckpoint(ctx, account.AccountID, day("2024-01-10"), dec("100"), "", actor)
	assert.NoError(t, err)

	// Same calendar day with a time-of-day component resolves to the same row.
	noisy := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)
	second, err := container.Reconciliation.UpsertCheckpoint(ctx, account.AccountID, noisy, dec("100"), "", actor)
	assert.NoError(t, err)
	assert.Equal(t, first.CheckpointID, second.CheckpointID)
}
