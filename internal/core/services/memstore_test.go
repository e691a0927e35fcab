package services_test

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"bankbook/internal/apperrors"
	"bankbook/internal/core/domain"
	portsrepo "bankbook/internal/core/ports/repositories"
)

// memStore is an in-memory implementation of all repository facades. The
// reconciliation scenarios need state that survives across calls (checkpoint
// upserts read back the synthetic entries earlier steps wrote), which
// call-by-call mocks cannot express cleanly.
type memStore struct {
	mu           sync.Mutex
	accounts     map[string]domain.Account
	transactions map[string]domain.Transaction
	checkpoints  map[string]domain.Checkpoint
	currencies   map[string]domain.Currency
}

func newMemStore() *memStore {
	return &memStore{
		accounts:     make(map[string]domain.Account),
		transactions: make(map[string]domain.Transaction),
		checkpoints:  make(map[string]domain.Checkpoint),
		currencies:   make(map[string]domain.Currency),
	}
}

func (s *memStore) provider() *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:     s,
		TransactionRepo: s,
		CheckpointRepo:  s,
		CurrencyRepo:    s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade     = (*memStore)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*memStore)(nil)
	_ portsrepo.CheckpointRepositoryFacade  = (*memStore)(nil)
	_ portsrepo.CurrencyRepositoryFacade    = (*memStore)(nil)
)

// --- Accounts ---

func (s *memStore) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (s *memStore) ListAccounts(_ context.Context, limit int, offset int) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		all = append(all, acc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AccountID < all[j].AccountID })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *memStore) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountID]; ok {
		return apperrors.ErrDuplicate
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *memStore) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountID]; !ok {
		return apperrors.ErrNotFound
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *memStore) DeactivateAccount(_ context.Context, accountID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	acc.IsActive = false
	acc.LastUpdatedBy = userID
	acc.LastUpdatedAt = now
	s.accounts[accountID] = acc
	return nil
}

func (s *memStore) UpdateOpeningBalanceDate(_ context.Context, accountID string, openingDate *time.Time, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	acc.OpeningBalanceDate = openingDate
	acc.LastUpdatedBy = userID
	acc.LastUpdatedAt = now
	s.accounts[accountID] = acc
	return nil
}

// --- Transactions ---

func (s *memStore) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (s *memStore) ListTransactionsUpTo(_ context.Context, accountID string, asOf time.Time, excludeTransactionID *string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.Transaction
	for _, txn := range s.transactions {
		if txn.AccountID != accountID || txn.TransactionDate.After(asOf) {
			continue
		}
		if excludeTransactionID != nil && txn.TransactionID == *excludeTransactionID {
			continue
		}
		result = append(result, txn)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].TransactionDate.Equal(result[j].TransactionDate) {
			return result[i].TransactionDate.Before(result[j].TransactionDate)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *memStore) ListTransactionsByAccount(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.Transaction
	for _, txn := range s.transactions {
		if txn.AccountID == accountID {
			all = append(all, txn)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TransactionDate.After(all[j].TransactionDate) })
	return paginate(all, limit, nextToken)
}

func (s *memStore) FindAdjustmentByCheckpointID(_ context.Context, checkpointID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txn := range s.transactions {
		if txn.IsBalanceAdjustment && txn.CheckpointID != nil && *txn.CheckpointID == checkpointID {
			result := txn
			return &result, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) FindEarliestTransactionDate(_ context.Context, accountID string) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var earliest *time.Time
	for _, txn := range s.transactions {
		if txn.AccountID != accountID {
			continue
		}
		date := txn.TransactionDate
		if earliest == nil || date.Before(*earliest) {
			earliest = &date
		}
	}
	return earliest, nil
}

func (s *memStore) ListFlaggedTransactions(_ context.Context, accountID string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.Transaction
	for _, txn := range s.transactions {
		if txn.AccountID == accountID && txn.IsFlagged {
			result = append(result, txn)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TransactionDate.Before(result[j].TransactionDate) })
	return result, nil
}

func (s *memStore) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[txn.TransactionID]; ok {
		return apperrors.ErrDuplicate
	}
	s.transactions[txn.TransactionID] = txn
	return nil
}

func (s *memStore) UpdateTransaction(_ context.Context, txn domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[txn.TransactionID]; !ok {
		return apperrors.ErrNotFound
	}
	s.transactions[txn.TransactionID] = txn
	return nil
}

func (s *memStore) DeleteTransaction(_ context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[transactionID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.transactions, transactionID)
	return nil
}

// --- Checkpoints ---

func (s *memStore) FindCheckpointByID(_ context.Context, checkpointID string) (*domain.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.checkpoints[checkpointID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &cp, nil
}

func (s *memStore) FindCheckpointByAccountAndDate(_ context.Context, accountID string, date time.Time) (*domain.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cp := range s.checkpoints {
		if cp.AccountID == accountID && cp.CheckpointDate.Equal(date) {
			result := cp
			return &result, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) ListCheckpoints(_ context.Context, accountID string, filter portsrepo.CheckpointFilter) ([]domain.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idSet := make(map[string]bool, len(filter.CheckpointIDs))
	for _, id := range filter.CheckpointIDs {
		idSet[id] = true
	}
	var result []domain.Checkpoint
	for _, cp := range s.checkpoints {
		if cp.AccountID != accountID {
			continue
		}
		if filter.FromDate != nil && cp.CheckpointDate.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && cp.CheckpointDate.After(*filter.ToDate) {
			continue
		}
		if len(idSet) > 0 && !idSet[cp.CheckpointID] {
			continue
		}
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CheckpointDate.Before(result[j].CheckpointDate) })
	return result, nil
}

func (s *memStore) ListCheckpointsPage(_ context.Context, accountID string, filter portsrepo.CheckpointFilter, limit int, nextToken *string) ([]domain.Checkpoint, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.Checkpoint
	for _, cp := range s.checkpoints {
		if cp.AccountID != accountID {
			continue
		}
		if filter.FromDate != nil && cp.CheckpointDate.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && cp.CheckpointDate.After(*filter.ToDate) {
			continue
		}
		all = append(all, cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CheckpointDate.After(all[j].CheckpointDate) })
	return paginate(all, limit, nextToken)
}

func (s *memStore) SaveCheckpoint(_ context.Context, checkpoint domain.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checkpoints[checkpoint.CheckpointID]; ok {
		return apperrors.ErrDuplicate
	}
	s.checkpoints[checkpoint.CheckpointID] = checkpoint
	return nil
}

func (s *memStore) UpdateCheckpoint(_ context.Context, checkpoint domain.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checkpoints[checkpoint.CheckpointID]; !ok {
		return apperrors.ErrNotFound
	}
	s.checkpoints[checkpoint.CheckpointID] = checkpoint
	return nil
}

func (s *memStore) DeleteCheckpoint(_ context.Context, checkpointID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checkpoints[checkpointID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.checkpoints, checkpointID)
	return nil
}

// --- Currencies ---

func (s *memStore) FindCurrencyByCode(_ context.Context, currencyCode string) (*domain.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.currencies[currencyCode]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &cur, nil
}

func (s *memStore) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]domain.Currency, 0, len(s.currencies))
	for _, cur := range s.currencies {
		all = append(all, cur)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CurrencyCode < all[j].CurrencyCode })
	return all, nil
}

func (s *memStore) SaveCurrency(_ context.Context, currency domain.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.currencies[currency.CurrencyCode]; ok {
		return apperrors.ErrDuplicate
	}
	s.currencies[currency.CurrencyCode] = currency
	return nil
}

// paginate applies offset-token pagination to a pre-sorted slice.
func paginate[T any](all []T, limit int, nextToken *string) ([]T, *string, error) {
	offset := 0
	if nextToken != nil {
		parsed, err := strconv.Atoi(*nextToken)
		if err != nil {
			return nil, nil, apperrors.ErrValidation
		}
		offset = parsed
	}
	if offset >= len(all) {
		return nil, nil, nil
	}
	end := offset + limit
	var token *string
	if end < len(all) {
		t := strconv.Itoa(end)
		token = &t
	} else {
		end = len(all)
	}
	return all[offset:end], token, nil
}
