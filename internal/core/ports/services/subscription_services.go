package services

import (
	"context"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
)

// SubscriptionReaderSvc defines read operations for subscription data
type SubscriptionReaderSvc interface {
	// GetSubscriptionByID retrieves a subscription, enforcing ownership.
	GetSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error)

	// ListSubscriptions retrieves a page of the user's subscriptions.
	ListSubscriptions(ctx context.Context, userID string, params dto.ListSubscriptionsParams) (*dto.ListSubscriptionsResponse, error)

	// ListUpcomingRenewals retrieves the user's active subscriptions renewing
	// within the given number of days, soonest first.
	ListUpcomingRenewals(ctx context.Context, userID string, withinDays int) ([]domain.Subscription, error)
}

// SubscriptionWriterSvc defines write operations for subscription data
type SubscriptionWriterSvc interface {
	// CreateSubscription creates a new subscription for the user.
	CreateSubscription(ctx context.Context, userID string, req dto.CreateSubscriptionRequest) (*domain.Subscription, error)

	// UpdateSubscription updates an existing subscription owned by the user.
	UpdateSubscription(ctx context.Context, userID string, subscriptionID string, req dto.UpdateSubscriptionRequest) (*domain.Subscription, error)
}

// SubscriptionLifecycleSvc defines operations for managing subscription lifecycle
type SubscriptionLifecycleSvc interface {
	// DeleteSubscription marks a subscription as deleted (soft delete).
	DeleteSubscription(ctx context.Context, userID string, subscriptionID string) error
}

// SubscriptionSvcFacade combines all subscription-related service interfaces
type SubscriptionSvcFacade interface {
	SubscriptionReaderSvc
	SubscriptionWriterSvc
	SubscriptionLifecycleSvc
}
