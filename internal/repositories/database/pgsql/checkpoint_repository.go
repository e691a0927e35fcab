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

type PgxCheckpointRepository struct {
	BaseRepository
}

// newPgxCheckpointRepository creates a new repository for checkpoint data.
func newPgxCheckpointRepository(pool *pgxpool.Pool) portsrepo.CheckpointRepositoryFacade {
	return &PgxCheckpointRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CheckpointRepositoryFacade = (*PgxCheckpointRepository)(nil)

const checkpointColumns = `checkpoint_id, account_id, checkpoint_date, declared_balance, calculated_balance, adjustment_amount, is_reconciled, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanCheckpoint(row pgx.Row) (*models.Checkpoint, error) {
	var m models.Checkpoint
	err := row.Scan(
		&m.CheckpointID,
		&m.AccountID,
		&m.CheckpointDate,
		&m.DeclaredBalance,
		&m.CalculatedBalance,
		&m.AdjustmentAmount,
		&m.IsReconciled,
		&m.Notes,
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

func collectCheckpoints(rows pgx.Rows) ([]domain.Checkpoint, error) {
	defer rows.Close()
	cps := []models.Checkpoint{}
	for rows.Next() {
		m, err := scanCheckpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint row: %w", err)
		}
		cps = append(cps, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkpoint rows: %w", err)
	}
	return mapping.ToDomainCheckpointSlice(cps), nil
}

// SaveCheckpoint inserts a new checkpoint.
func (r *PgxCheckpointRepository) SaveCheckpoint(ctx context.Context, checkpoint domain.Checkpoint) error {
	m := mapping.ToModelCheckpoint(checkpoint)

	query := `
		INSERT INTO checkpoints (` + checkpointColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CheckpointID,
		m.AccountID,
		m.CheckpointDate,
		m.DeclaredBalance,
		m.CalculatedBalance,
		m.AdjustmentAmount,
		m.IsReconciled,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: checkpoint already exists for account %s on %s", apperrors.ErrDuplicate, m.AccountID, m.CheckpointDate.Format("2006-01-02"))
		}
		return fmt.Errorf("failed to save checkpoint %s: %w", m.CheckpointID, err)
	}
	return nil
}

// UpdateCheckpoint updates an existing checkpoint.
func (r *PgxCheckpointRepository) UpdateCheckpoint(ctx context.Context, checkpoint domain.Checkpoint) error {
	m := mapping.ToModelCheckpoint(checkpoint)

	query := `
		UPDATE checkpoints
		SET declared_balance = $2, calculated_balance = $3, adjustment_amount = $4, is_reconciled = $5, notes = $6, last_updated_at = $7, last_updated_by = $8
		WHERE checkpoint_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.CheckpointID,
		m.DeclaredBalance,
		m.CalculatedBalance,
		m.AdjustmentAmount,
		m.IsReconciled,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update checkpoint %s: %w", m.CheckpointID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCheckpoint removes a checkpoint by ID. The synthetic transaction
// cascade lives in the service layer.
func (r *PgxCheckpointRepository) DeleteCheckpoint(ctx context.Context, checkpointID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM checkpoints WHERE checkpoint_id = $1;`, checkpointID)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint %s: %w", checkpointID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindCheckpointByID retrieves a checkpoint by its ID.
func (r *PgxCheckpointRepository) FindCheckpointByID(ctx context.Context, checkpointID string) (*domain.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoints
		WHERE checkpoint_id = $1;
	`
	m, err := scanCheckpoint(r.Pool.QueryRow(ctx, query, checkpointID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find checkpoint by ID %s: %w", checkpointID, err)
	}
	d := mapping.ToDomainCheckpoint(*m)
	return &d, nil
}

// FindCheckpointByAccountAndDate retrieves the checkpoint for an account at an
// exact date.
func (r *PgxCheckpointRepository) FindCheckpointByAccountAndDate(ctx context.Context, accountID string, date time.Time) (*domain.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoints
		WHERE account_id = $1 AND checkpoint_date = $2;
	`
	m, err := scanCheckpoint(r.Pool.QueryRow(ctx, query, accountID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find checkpoint for account %s on %s: %w", accountID, date.Format("2006-01-02"), err)
	}
	d := mapping.ToDomainCheckpoint(*m)
	return &d, nil
}

// ListCheckpoints retrieves checkpoints matching the filter, oldest first.
// Ascending order is what lets the recalculation engine chain checkpoints.
func (r *PgxCheckpointRepository) ListCheckpoints(ctx context.Context, accountID string, filter portsrepo.CheckpointFilter) ([]domain.Checkpoint, error) {
	query := `
		SELECT ` + checkpointColumns + `
		FROM checkpoints
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR checkpoint_date >= $2)
		  AND ($3::timestamptz IS NULL OR checkpoint_date <= $3)
		  AND ($4::text[] IS NULL OR checkpoint_id = ANY($4))
		ORDER BY checkpoint_date ASC;
	`
	var ids []string
	if len(filter.CheckpointIDs) > 0 {
		ids = filter.CheckpointIDs
	}
	rows, err := r.Pool.Query(ctx, query, accountID, filter.FromDate, filter.ToDate, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkpoints for account %s: %w", accountID, err)
	}
	return collectCheckpoints(rows)
}

// ListCheckpointsPage retrieves a page of checkpoints for an account matching
// the filter, newest first, using a (checkpoint_date, created_at) keyset token.
func (r *PgxCheckpointRepository) ListCheckpointsPage(ctx context.Context, accountID string, filter portsrepo.CheckpointFilter, limit int, nextToken *string) ([]domain.Checkpoint, *string, error) {
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
		SELECT ` + checkpointColumns + `
		FROM checkpoints
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR (checkpoint_date, created_at) < ($2, $3))
		  AND ($4::timestamptz IS NULL OR checkpoint_date >= $4)
		  AND ($5::timestamptz IS NULL OR checkpoint_date <= $5)
		ORDER BY checkpoint_date DESC, created_at DESC
		LIMIT $6;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, cursorDate, cursorCreatedAt, filter.FromDate, filter.ToDate, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query checkpoints for account %s: %w", accountID, err)
	}
	cps, err := collectCheckpoints(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(cps) > limit {
		cps = cps[:limit]
		last := cps[len(cps)-1]
		encoded := pagination.EncodeToken(last.CheckpointDate, last.CreatedAt)
		token = &encoded
	}
	return cps, token, nil
}
