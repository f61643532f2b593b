package providers

import (
	"context"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// RateSource fetches exchange rates from an external provider.
type RateSource interface {
	// FetchLatest retrieves the full current rate table for the given base currency.
	FetchLatest(ctx context.Context, base string) (*domain.RateSnapshot, error)

	// FetchHistorical retrieves the closing rates for the given base currency on a past day.
	FetchHistorical(ctx context.Context, base string, date time.Time) (*domain.RateSnapshot, error)

	// FetchCurrencies retrieves the currency codes the provider supports, with display names.
	FetchCurrencies(ctx context.Context) (map[string]string, error)
}

// RateCache stores serialized values under string keys with per-entry expiry.
// Implementations treat an expired entry the same as a missing one.
type RateCache interface {
	// Get returns the stored bytes for key, or (nil, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Remove deletes the entry for key if present.
	Remove(ctx context.Context, key string) error

	// Clear drops every entry.
	Clear(ctx context.Context) error
}

// AlertNotifier delivers a fired rate alert to the user.
type AlertNotifier interface {
	// Notify reports that alert's condition was met at currentRate.
	Notify(ctx context.Context, alert domain.RateAlert, currentRate float64) error
}
