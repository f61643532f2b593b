package services

import (
	"context"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// ReportingSvcFacade defines operations for generating spending reports
type ReportingSvcFacade interface {
	// GetSpendingSummary converts the user's active subscriptions into the
	// target currency and aggregates monthly and yearly totals. An empty
	// currencyCode falls back to the user's preferred currency.
	GetSpendingSummary(ctx context.Context, userID string, currencyCode string) (*domain.SpendingSummary, error)
}
