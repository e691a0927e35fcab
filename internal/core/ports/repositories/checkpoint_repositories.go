package repositories

import (
	"context"
	"time"

	"bankbook/internal/core/domain"
)

// CheckpointFilter narrows a checkpoint selection. Zero-value fields are
// ignored. Used by the recalculation engine to scope a pass.
type CheckpointFilter struct {
	FromDate      *time.Time
	ToDate        *time.Time
	CheckpointIDs []string
}

// CheckpointReader defines read operations for checkpoint data
type CheckpointReader interface {
	// FindCheckpointByID retrieves a specific checkpoint by its unique identifier.
	FindCheckpointByID(ctx context.Context, checkpointID string) (*domain.Checkpoint, error)

	// FindCheckpointByAccountAndDate retrieves the checkpoint for an account
	// at an exact date, or ErrNotFound. At most one exists per (account, date).
	FindCheckpointByAccountAndDate(ctx context.Context, accountID string, date time.Time) (*domain.Checkpoint, error)

	// ListCheckpoints retrieves the checkpoints for an account matching the
	// filter, ordered by checkpoint date ascending. Ascending order is load
	// bearing: recalculation must process checkpoints oldest first so earlier
	// synthetic entries feed later calculations.
	ListCheckpoints(ctx context.Context, accountID string, filter CheckpointFilter) ([]domain.Checkpoint, error)

	// ListCheckpointsPage retrieves a paginated list of checkpoints for an
	// account matching the filter, using token-based pagination, newest first.
	ListCheckpointsPage(ctx context.Context, accountID string, filter CheckpointFilter, limit int, nextToken *string) ([]domain.Checkpoint, *string, error)
}

// CheckpointWriter defines write operations for checkpoint data
type CheckpointWriter interface {
	// SaveCheckpoint persists a new checkpoint.
	SaveCheckpoint(ctx context.Context, checkpoint domain.Checkpoint) error

	// UpdateCheckpoint updates an existing checkpoint.
	UpdateCheckpoint(ctx context.Context, checkpoint domain.Checkpoint) error

	// DeleteCheckpoint removes a checkpoint by ID. Cascading the synthetic
	// transaction is owned by the service layer, not the store.
	DeleteCheckpoint(ctx context.Context, checkpointID string) error
}

// CheckpointRepositoryFacade combines all checkpoint-related repository interfaces.
type CheckpointRepositoryFacade interface {
	CheckpointReader
	CheckpointWriter
}
