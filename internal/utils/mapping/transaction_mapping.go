package mapping

import (
	"bankbook/internal/core/domain"
	"bankbook/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:       d.TransactionID,
		AccountID:           d.AccountID,
		TransactionDate:     d.TransactionDate,
		Description:         d.Description,
		DebitAmount:         d.DebitAmount,
		CreditAmount:        d.CreditAmount,
		Origin:              models.TransactionOrigin(d.Origin),
		IsFlagged:           d.IsFlagged,
		IsBalanceAdjustment: d.IsBalanceAdjustment,
		CheckpointID:        d.CheckpointID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:       m.TransactionID,
		AccountID:           m.AccountID,
		TransactionDate:     m.TransactionDate,
		Description:         m.Description,
		DebitAmount:         m.DebitAmount,
		CreditAmount:        m.CreditAmount,
		Origin:              domain.TransactionOrigin(m.Origin),
		IsFlagged:           m.IsFlagged,
		IsBalanceAdjustment: m.IsBalanceAdjustment,
		CheckpointID:        m.CheckpointID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
