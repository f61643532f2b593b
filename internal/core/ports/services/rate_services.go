package services

import (
	"context"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// RateReaderSvc defines read operations for exchange rate data
type RateReaderSvc interface {
	// GetLatestRates returns current rates for base, serving from cache when fresh.
	// A non-empty symbols slice narrows the result to those target currencies.
	GetLatestRates(ctx context.Context, base string, symbols []string) (*domain.RateSnapshot, error)

	// GetRate returns the current rate for one currency pair, or nil when the
	// rate cannot be determined.
	GetRate(ctx context.Context, from, to string) *float64

	// GetHistoricalRates returns the pair's daily closing rates over the
	// inclusive [startDate, endDate] range, oldest first. Days that cannot be
	// fetched are skipped. Dates are "YYYY-MM-DD".
	GetHistoricalRates(ctx context.Context, from, to string, startDate, endDate string) ([]domain.HistoricalRate, error)

	// GetTimeSeries returns the pair's daily rates over the inclusive date
	// range as one cacheable series.
	GetTimeSeries(ctx context.Context, from, to string, startDate, endDate string) (*domain.RateTimeSeries, error)
}

// RateConverterSvc defines currency conversion operations
type RateConverterSvc interface {
	// ConvertAmount converts amount between currencies, rounded to the target
	// currency's decimal places. When rate is nil the current rate is looked up;
	// if no rate is available the amount is returned unconverted.
	ConvertAmount(ctx context.Context, amount float64, from, to string, rate *float64) float64

	// BatchConvert converts several amounts of one source currency into the
	// target currency, resolving the rate once for the whole batch. Each result
	// is rounded independently.
	BatchConvert(ctx context.Context, amounts []float64, from, to string) []float64
}

// RateRefresherSvc defines cache invalidation operations
type RateRefresherSvc interface {
	// RefreshRates drops the cached snapshot for base and fetches a fresh one.
	RefreshRates(ctx context.Context, base string) (*domain.RateSnapshot, error)
}

// RateSvcFacade combines all rate-related service interfaces
type RateSvcFacade interface {
	RateReaderSvc
	RateConverterSvc
	RateRefresherSvc
}
