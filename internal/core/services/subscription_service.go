package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/repositories"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/utils/recurrence"
	"github.com/google/uuid"
)

const (
	defaultPageLimit         = 20
	defaultRenewalWindowDays = 7
)

// subscriptionService implements subscription management on top of the
// subscription repository.
type subscriptionService struct {
	repo repositories.SubscriptionRepositoryFacade
	now  func() time.Time
}

// SubscriptionServiceOption configures optional subscriptionService behavior.
type SubscriptionServiceOption func(*subscriptionService)

// WithSubscriptionClock overrides the service's time source.
func WithSubscriptionClock(now func() time.Time) SubscriptionServiceOption {
	return func(s *subscriptionService) {
		s.now = now
	}
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(repo repositories.SubscriptionRepositoryFacade, options ...SubscriptionServiceOption) portssvc.SubscriptionSvcFacade {
	s := &subscriptionService{
		repo: repo,
		now:  time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.SubscriptionSvcFacade = (*subscriptionService)(nil)

// parseBillingCycle normalizes and validates a billing cycle string.
func parseBillingCycle(raw string) (domain.BillingCycle, error) {
	cycle := domain.BillingCycle(strings.ToUpper(strings.TrimSpace(raw)))
	switch cycle {
	case domain.BillingWeekly, domain.BillingMonthly, domain.BillingQuarterly, domain.BillingYearly:
		return cycle, nil
	}
	return "", fmt.Errorf("%w: unknown billing cycle '%s'", apperrors.ErrValidation, raw)
}

// CreateSubscription validates and persists a new subscription for the user.
func (s *subscriptionService) CreateSubscription(ctx context.Context, userID string, req dto.CreateSubscriptionRequest) (*domain.Subscription, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: subscription name is required", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: subscription amount must be positive", apperrors.ErrValidation)
	}
	cycle, err := parseBillingCycle(req.BillingCycle)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	subscription := domain.Subscription{
		SubscriptionID:  uuid.NewString(),
		UserID:          userID,
		Name:            name,
		Amount:          req.Amount,
		CurrencyCode:    strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),
		BillingCycle:    cycle,
		NextBillingDate: req.NextBillingDate.UTC(),
		Category:        strings.TrimSpace(req.Category),
		Notes:           req.Notes,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.repo.SaveSubscription(ctx, subscription); err != nil {
		logger.Error("Failed to save subscription", "error", err, slog.String("userID", userID))
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}

	logger.Info("Subscription created",
		slog.String("subscriptionID", subscription.SubscriptionID),
		slog.String("userID", userID))
	return &subscription, nil
}

// GetSubscriptionByID retrieves a subscription, enforcing ownership.
// Another user's subscription reads as missing rather than forbidden.
func (s *subscriptionService) GetSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error) {
	subscription, err := s.repo.FindSubscriptionByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find subscription %s: %w", subscriptionID, err)
	}
	if subscription.UserID != userID {
		return nil, fmt.Errorf("subscription %s: %w", subscriptionID, apperrors.ErrNotFound)
	}
	return subscription, nil
}

// UpdateSubscription applies the provided fields to a subscription owned by the user.
func (s *subscriptionService) UpdateSubscription(ctx context.Context, userID string, subscriptionID string, req dto.UpdateSubscriptionRequest) (*domain.Subscription, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	subscription, err := s.GetSubscriptionByID(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: subscription name cannot be empty", apperrors.ErrValidation)
		}
		subscription.Name = name
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: subscription amount must be positive", apperrors.ErrValidation)
		}
		subscription.Amount = *req.Amount
	}
	if req.CurrencyCode != nil {
		subscription.CurrencyCode = strings.ToUpper(strings.TrimSpace(*req.CurrencyCode))
	}
	if req.BillingCycle != nil {
		cycle, err := parseBillingCycle(*req.BillingCycle)
		if err != nil {
			return nil, err
		}
		subscription.BillingCycle = cycle
	}
	if req.NextBillingDate != nil {
		subscription.NextBillingDate = req.NextBillingDate.UTC()
	}
	if req.Category != nil {
		subscription.Category = strings.TrimSpace(*req.Category)
	}
	if req.Notes != nil {
		subscription.Notes = *req.Notes
	}
	if req.IsActive != nil {
		subscription.IsActive = *req.IsActive
	}

	subscription.LastUpdatedAt = s.now().UTC()
	subscription.LastUpdatedBy = userID

	if err := s.repo.UpdateSubscription(ctx, *subscription); err != nil {
		logger.Error("Failed to update subscription", "error", err, slog.String("subscriptionID", subscriptionID))
		return nil, fmt.Errorf("failed to update subscription %s: %w", subscriptionID, err)
	}

	logger.Info("Subscription updated", slog.String("subscriptionID", subscriptionID))
	return subscription, nil
}

// DeleteSubscription soft deletes a subscription owned by the user.
func (s *subscriptionService) DeleteSubscription(ctx context.Context, userID string, subscriptionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetSubscriptionByID(ctx, userID, subscriptionID); err != nil {
		return err
	}

	if err := s.repo.MarkSubscriptionDeleted(ctx, subscriptionID, s.now().UTC(), userID); err != nil {
		logger.Error("Failed to delete subscription", "error", err, slog.String("subscriptionID", subscriptionID))
		return fmt.Errorf("failed to delete subscription %s: %w", subscriptionID, err)
	}

	logger.Info("Subscription deleted", slog.String("subscriptionID", subscriptionID))
	return nil
}

// ListSubscriptions retrieves a page of the user's subscriptions, newest first.
func (s *subscriptionService) ListSubscriptions(ctx context.Context, userID string, params dto.ListSubscriptionsParams) (*dto.ListSubscriptionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	subscriptions, nextToken, err := s.repo.FindSubscriptionsByUser(ctx, userID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for user %s: %w", userID, err)
	}

	return &dto.ListSubscriptionsResponse{
		Subscriptions: dto.ToListSubscriptionResponse(subscriptions),
		NextToken:     nextToken,
	}, nil
}

// ListUpcomingRenewals returns the user's active subscriptions whose next
// effective billing date falls within the window, soonest first. Stored
// billing dates that have already passed are rolled forward before the
// window check, so a stale date does not hide an imminent charge.
func (s *subscriptionService) ListUpcomingRenewals(ctx context.Context, userID string, withinDays int) ([]domain.Subscription, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if withinDays <= 0 {
		withinDays = defaultRenewalWindowDays
	}

	subscriptions, err := s.repo.FindActiveSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions for user %s: %w", userID, err)
	}

	now := s.now().UTC()
	cutoff := now.AddDate(0, 0, withinDays)

	upcoming := make([]domain.Subscription, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		effective, err := recurrence.AdvancePast(subscription.NextBillingDate, subscription.BillingCycle, now)
		if err != nil {
			logger.Warn("Skipping subscription with unknown billing cycle",
				slog.String("subscriptionID", subscription.SubscriptionID), "error", err)
			continue
		}
		if effective.After(cutoff) {
			continue
		}
		subscription.NextBillingDate = effective
		upcoming = append(upcoming, subscription)
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].NextBillingDate.Before(upcoming[j].NextBillingDate)
	})
	return upcoming, nil
}
