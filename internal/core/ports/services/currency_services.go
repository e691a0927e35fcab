package services

import (
	"context"

	"bankbook/internal/core/domain"
)

// CurrencySvcFacade defines the service operations for currencies.
type CurrencySvcFacade interface {
	// GetCurrencyByCode retrieves a currency by its ISO code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// PrecisionFor returns the minor-unit digit count for a currency, falling
	// back to the default when the currency is not on record. The
	// reconciliation threshold for an account is one minor unit.
	PrecisionFor(ctx context.Context, currencyCode string) int
}
