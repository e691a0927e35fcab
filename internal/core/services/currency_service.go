package services

import (
	"context"
	"fmt"
	"log/slog"

	"bankbook/internal/core/domain"
	portsrepo "bankbook/internal/core/ports/repositories"
	portssvc "bankbook/internal/core/ports/services"
	"bankbook/internal/middleware"
	"bankbook/internal/utils/accounting"
)

// currencyService implements currency lookups.
type currencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// GetCurrencyByCode retrieves a currency by its ISO code.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find currency %s: %w", currencyCode, err)
	}
	return currency, nil
}

// ListCurrencies retrieves all supported currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}

// PrecisionFor returns the minor-unit digit count for a currency. Unknown
// currencies fall back to the default so reconciliation still has a usable
// threshold.
func (s *currencyService) PrecisionFor(ctx context.Context, currencyCode string) int {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Currency not found, using default precision",
			slog.String("currency_code", currencyCode),
			slog.Int("default_precision", accounting.DefaultPrecision))
		return accounting.DefaultPrecision
	}
	return currency.Precision
}
