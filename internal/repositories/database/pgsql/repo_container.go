package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "bankbook/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories against one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		CheckpointRepo:  newPgxCheckpointRepository(dbPool),
		CurrencyRepo:    newPgxCurrencyRepository(dbPool),
	}
}
