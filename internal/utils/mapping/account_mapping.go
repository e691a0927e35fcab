package mapping

import (
	"bankbook/internal/core/domain"
	"bankbook/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		Name:               d.Name,
		AccountKind:        models.AccountKind(d.AccountKind),
		CurrencyCode:       d.CurrencyCode,
		CreditLimit:        d.CreditLimit,
		Description:        d.Description,
		IsActive:           d.IsActive,
		OpeningBalanceDate: d.OpeningBalanceDate,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		Name:               m.Name,
		AccountKind:        domain.AccountKind(m.AccountKind),
		CurrencyCode:       m.CurrencyCode,
		CreditLimit:        m.CreditLimit,
		Description:        m.Description,
		IsActive:           m.IsActive,
		OpeningBalanceDate: m.OpeningBalanceDate,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
