package services

import (
	"context"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// CurrencySvcFacade defines lookup operations for currency display metadata.
type CurrencySvcFacade interface {
	// GetCurrency returns display metadata for a currency code. Unknown codes
	// get a generic fallback rather than an error.
	GetCurrency(code string) domain.Currency

	// DecimalPlaces returns the number of minor unit digits amounts in the
	// currency are rounded to.
	DecimalPlaces(code string) int

	// ListCurrencies returns the currencies the rate provider supports, enriched
	// with local display metadata.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
