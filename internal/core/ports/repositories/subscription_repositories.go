package repositories

import (
	"context"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// SubscriptionReader defines read operations for subscription data
type SubscriptionReader interface {
	// FindSubscriptionByID retrieves a specific subscription by its ID.
	FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error)

	// FindSubscriptionsByUser retrieves a page of a user's subscriptions using token-based
	// pagination, newest first. It returns the page and a token for the next page, if any.
	FindSubscriptionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Subscription, *string, error)

	// FindActiveSubscriptionsByUser retrieves every non-deleted, active subscription for a user.
	FindActiveSubscriptionsByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
}

// SubscriptionWriter defines write operations for subscription data
type SubscriptionWriter interface {
	// SaveSubscription persists a new subscription.
	SaveSubscription(ctx context.Context, subscription domain.Subscription) error

	// UpdateSubscription updates an existing subscription's details.
	UpdateSubscription(ctx context.Context, subscription domain.Subscription) error
}

// SubscriptionLifecycleManager defines operations for managing subscription lifecycle
type SubscriptionLifecycleManager interface {
	// MarkSubscriptionDeleted marks a subscription as deleted (soft delete).
	MarkSubscriptionDeleted(ctx context.Context, subscriptionID string, deletedAt time.Time, deletedBy string) error
}

// SubscriptionRepositoryFacade combines all subscription-related repository interfaces
// This is a facade for clients that need access to all operations
type SubscriptionRepositoryFacade interface {
	SubscriptionReader
	SubscriptionWriter
	SubscriptionLifecycleManager
}

// SubscriptionRepositoryWithTx extends SubscriptionRepositoryFacade with transaction capabilities
type SubscriptionRepositoryWithTx interface {
	SubscriptionRepositoryFacade
	TransactionManager
}
