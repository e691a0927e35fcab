package services

import (
	"time"

	portsrepo "bankbook/internal/core/ports/repositories"
	portssvc "bankbook/internal/core/ports/services"
)

// NewServiceContainer wires all application services against the repository
// provider. The reconciliation facade is built first because the transaction
// service hooks into it for post-mutation recalculation.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, openingDateOffset time.Duration) *portssvc.ServiceContainer {
	currencySvc := NewCurrencyService(repos.CurrencyRepo)
	calculator := NewBalanceCalculator(repos.AccountRepo, repos.TransactionRepo)
	synthesizer := NewAdjustmentSynthesizer(repos.TransactionRepo)
	openingDates := NewOpeningDateService(repos.AccountRepo, repos.TransactionRepo, openingDateOffset)

	reconciliationSvc := NewReconciliationService(
		repos.CheckpointRepo,
		repos.TransactionRepo,
		repos.AccountRepo,
		calculator,
		synthesizer,
		openingDates,
		currencySvc,
	)

	return &portssvc.ServiceContainer{
		Account:        NewAccountService(repos.AccountRepo, currencySvc),
		Transaction:    NewTransactionService(repos.TransactionRepo, repos.AccountRepo, reconciliationSvc),
		Reconciliation: reconciliationSvc,
		Balance:        calculator,
		Currency:       currencySvc,
	}
}
