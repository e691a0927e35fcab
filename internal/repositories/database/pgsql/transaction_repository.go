package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bankbook/internal/apperrors"
	"bankbook/internal/core/domain"
	portsrepo "bankbook/internal/core/ports/repositories"
	"bankbook/internal/models"
	"bankbook/internal/utils/mapping"
	"bankbook/internal/utils/pagination"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, account_id, transaction_date, description, debit_amount, credit_amount, origin, is_flagged, is_balance_adjustment, checkpoint_id, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.TransactionDate,
		&m.Description,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.Origin,
		&m.IsFlagged,
		&m.IsBalanceAdjustment,
		&m.CheckpointID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	txns := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(txns), nil
}

// SaveTransaction inserts a new transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.AccountID,
		m.TransactionDate,
		m.Description,
		m.DebitAmount,
		m.CreditAmount,
		m.Origin,
		m.IsFlagged,
		m.IsBalanceAdjustment,
		m.CheckpointID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return fmt.Errorf("%w: transaction %s already exists or checkpoint already has an adjustment", apperrors.ErrDuplicate, m.TransactionID)
			case "23514":
				return fmt.Errorf("%w: transaction %s violates debit/credit exclusivity", apperrors.ErrValidation, m.TransactionID)
			}
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// UpdateTransaction updates an existing transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		UPDATE transactions
		SET transaction_date = $2, description = $3, debit_amount = $4, credit_amount = $5, is_flagged = $6, last_updated_at = $7, last_updated_by = $8
		WHERE transaction_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.TransactionDate,
		m.Description,
		m.DebitAmount,
		m.CreditAmount,
		m.IsFlagged,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return fmt.Errorf("%w: transaction %s violates debit/credit exclusivity", apperrors.ErrValidation, m.TransactionID)
		}
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction by ID.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(*m)
	return &d, nil
}

// ListTransactionsUpTo retrieves all transactions for an account dated on or
// before asOf, oldest first. excludeTransactionID skips one transaction when set.
func (r *PgxTransactionRepository) ListTransactionsUpTo(ctx context.Context, accountID string, asOf time.Time, excludeTransactionID *string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		  AND transaction_date <= $2
		  AND ($3::text IS NULL OR transaction_id != $3)
		ORDER BY transaction_date ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, asOf, excludeTransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	return collectTransactions(rows)
}

// ListTransactionsByAccount retrieves a page of transactions for an account,
// newest first, using a (transaction_date, created_at) keyset token.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var cursorDate, cursorCreatedAt *time.Time
	if nextToken != nil && *nextToken != "" {
		date, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		cursorDate, cursorCreatedAt = &date, &createdAt
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR (transaction_date, created_at) < ($2, $3))
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $4;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, cursorDate, cursorCreatedAt, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		encoded := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		token = &encoded
	}
	return txns, token, nil
}

// FindAdjustmentByCheckpointID retrieves the synthetic transaction owned by a
// checkpoint. The partial unique index guarantees at most one row.
func (r *PgxTransactionRepository) FindAdjustmentByCheckpointID(ctx context.Context, checkpointID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE checkpoint_id = $1 AND is_balance_adjustment = TRUE;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, checkpointID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find adjustment for checkpoint %s: %w", checkpointID, err)
	}
	d := mapping.ToDomainTransaction(*m)
	return &d, nil
}

// FindEarliestTransactionDate returns the account's earliest transaction date,
// or nil when the ledger is empty.
func (r *PgxTransactionRepository) FindEarliestTransactionDate(ctx context.Context, accountID string) (*time.Time, error) {
	query := `SELECT MIN(transaction_date) FROM transactions WHERE account_id = $1;`

	var earliest *time.Time
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&earliest); err != nil {
		return nil, fmt.Errorf("failed to find earliest transaction date for account %s: %w", accountID, err)
	}
	return earliest, nil
}

// ListFlaggedTransactions retrieves all flagged transactions for an account.
func (r *PgxTransactionRepository) ListFlaggedTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND is_flagged = TRUE
		ORDER BY transaction_date ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flagged transactions for account %s: %w", accountID, err)
	}
	return collectTransactions(rows)
}
