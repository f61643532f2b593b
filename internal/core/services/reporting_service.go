package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/repositories"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/shopspring/decimal"
)

const fallbackSummaryCurrency = "USD"

var monthsPerYear = decimal.NewFromInt(12)

// reportingService rolls active subscriptions up into spending summaries.
type reportingService struct {
	subscriptionRepo repositories.SubscriptionReader
	userRepo         repositories.UserReader
	converter        portssvc.RateConverterSvc
	currencySvc      portssvc.CurrencySvcFacade
	now              func() time.Time
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingClock overrides the service's time source.
func WithReportingClock(now func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.now = now
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	subscriptionRepo repositories.SubscriptionReader,
	userRepo repositories.UserReader,
	converter portssvc.RateConverterSvc,
	currencySvc portssvc.CurrencySvcFacade,
	options ...ReportingServiceOption,
) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		converter:        converter,
		currencySvc:      currencySvc,
		now:              time.Now,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetSpendingSummary converts every active subscription's cost to one currency
// and aggregates monthly and yearly totals plus per-category breakdowns.
// A conversion that cannot be resolved degrades to the unconverted amount, so
// one unreachable rate never fails the whole report.
func (s *reportingService) GetSpendingSummary(ctx context.Context, userID string, currencyCode string) (*domain.SpendingSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	target, err := s.resolveSummaryCurrency(ctx, userID, currencyCode)
	if err != nil {
		return nil, err
	}

	subscriptions, err := s.subscriptionRepo.FindActiveSubscriptionsByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to load subscriptions for summary", "error", err, slog.String("userID", userID))
		return nil, fmt.Errorf("failed to load subscriptions for summary: %w", err)
	}

	targetPlaces := int32(s.currencySvc.DecimalPlaces(target))
	items := make([]domain.SubscriptionCost, 0, len(subscriptions))
	categoryTotals := make(map[string]decimal.Decimal)
	monthlyTotal := decimal.Zero

	for _, subscription := range subscriptions {
		billingPlaces := int32(s.currencySvc.DecimalPlaces(subscription.CurrencyCode))
		monthly := subscription.Amount.Mul(subscription.BillingCycle.MonthlyFactor()).Round(billingPlaces)

		converted := monthly
		if subscription.CurrencyCode != target {
			result := s.converter.ConvertAmount(ctx, monthly.InexactFloat64(), subscription.CurrencyCode, target, nil)
			converted = decimal.NewFromFloat(result)
		}

		items = append(items, domain.SubscriptionCost{
			SubscriptionID:  subscription.SubscriptionID,
			Name:            subscription.Name,
			Category:        subscription.Category,
			Amount:          subscription.Amount,
			CurrencyCode:    subscription.CurrencyCode,
			BillingCycle:    subscription.BillingCycle,
			MonthlyAmount:   monthly,
			ConvertedAmount: converted,
		})

		category := subscription.Category
		if category == "" {
			category = "Uncategorized"
		}
		categoryTotals[category] = categoryTotals[category].Add(converted)
		monthlyTotal = monthlyTotal.Add(converted)
	}

	monthlyTotal = monthlyTotal.Round(targetPlaces)

	categories := make([]domain.CategoryTotal, 0, len(categoryTotals))
	for category, total := range categoryTotals {
		categories = append(categories, domain.CategoryTotal{
			Category: category,
			Total:    total.Round(targetPlaces),
		})
	}

	// Largest spend first; ties break alphabetically so the report is stable.
	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].Total.Equal(categories[j].Total) {
			return categories[i].Total.GreaterThan(categories[j].Total)
		}
		return categories[i].Category < categories[j].Category
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].ConvertedAmount.Equal(items[j].ConvertedAmount) {
			return items[i].ConvertedAmount.GreaterThan(items[j].ConvertedAmount)
		}
		return items[i].Name < items[j].Name
	})

	summary := &domain.SpendingSummary{
		CurrencyCode: target,
		MonthlyTotal: monthlyTotal,
		YearlyTotal:  monthlyTotal.Mul(monthsPerYear).Round(targetPlaces),
		Items:        items,
		Categories:   categories,
		GeneratedAt:  s.now().UTC(),
	}

	logger.Info("Spending summary generated",
		slog.String("userID", userID),
		slog.String("currency", target),
		slog.Int("subscriptions", len(items)))
	return summary, nil
}

// resolveSummaryCurrency picks the currency the summary is reported in: the
// explicit parameter, else the user's preference, else USD.
func (s *reportingService) resolveSummaryCurrency(ctx context.Context, userID string, currencyCode string) (string, error) {
	if code := strings.ToUpper(strings.TrimSpace(currencyCode)); code != "" {
		return code, nil
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve summary currency: %w", err)
	}
	if user.PreferredCurrency != "" {
		return user.PreferredCurrency, nil
	}
	return fallbackSummaryCurrency, nil
}
