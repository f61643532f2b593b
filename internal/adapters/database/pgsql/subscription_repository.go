package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	portsrepo "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/repositories"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/models"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/utils/mapping"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subscriptionColumns = `subscription_id, user_id, name, amount, currency_code, billing_cycle,
	next_billing_date, category, notes, is_active, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxSubscriptionRepository struct {
	BaseRepository
}

// newPgxSubscriptionRepository creates a new repository for subscription data.
func newPgxSubscriptionRepository(pool *pgxpool.Pool) portsrepo.SubscriptionRepositoryWithTx {
	return &PgxSubscriptionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.SubscriptionRepositoryWithTx = (*PgxSubscriptionRepository)(nil)

// scanSubscription scans a full subscription row in subscriptionColumns order.
func scanSubscription(row pgx.Row) (models.Subscription, error) {
	var m models.Subscription
	err := row.Scan(
		&m.SubscriptionID,
		&m.UserID,
		&m.Name,
		&m.Amount,
		&m.CurrencyCode,
		&m.BillingCycle,
		&m.NextBillingDate,
		&m.Category,
		&m.Notes,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func (r *PgxSubscriptionRepository) SaveSubscription(ctx context.Context, subscription domain.Subscription) error {
	m := mapping.ToModelSubscription(subscription)
	query := `
		INSERT INTO subscriptions (subscription_id, user_id, name, amount, currency_code, billing_cycle,
			next_billing_date, category, notes, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SubscriptionID,
		m.UserID,
		m.Name,
		m.Amount,
		m.CurrencyCode,
		m.BillingCycle,
		m.NextBillingDate,
		m.Category,
		m.Notes,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

func (r *PgxSubscriptionRepository) FindSubscriptionByID(ctx context.Context, subscriptionID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE subscription_id = $1 AND deleted_at IS NULL;`
	m, err := scanSubscription(r.Pool.QueryRow(ctx, query, subscriptionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find subscription by ID %s: %w", subscriptionID, err)
	}
	domainSub := mapping.ToDomainSubscription(m)
	return &domainSub, nil
}

// FindSubscriptionsByUser retrieves a page of a user's subscriptions using token-based pagination.
// It returns the list, a token for the next page (if any), and an error.
func (r *PgxSubscriptionRepository) FindSubscriptionsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Subscription, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + subscriptionColumns + ` FROM subscriptions`
	filterClause := `WHERE user_id = $1 AND deleted_at IS NULL`

	// Ordering must be stable; subscription_id breaks created_at ties.
	orderByClause := `ORDER BY created_at DESC, subscription_id DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{userID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison keeps the cursor condition concise and index-friendly.
		cursorClause := `AND (created_at, subscription_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query subscriptions for user "+userID, err)
	}
	defer rows.Close()

	modelSubs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Subscription, error) {
		return scanSubscription(row)
	})
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan subscription rows for user "+userID, err)
	}

	// Determine the next token
	var newNextToken *string
	if len(modelSubs) == fetchLimit {
		lastItem := modelSubs[limit-1]
		token := pagination.EncodeCursor(lastItem.CreatedAt, lastItem.SubscriptionID)
		newNextToken = &token
		modelSubs = modelSubs[:limit]
	}

	return mapping.ToDomainSubscriptionSlice(modelSubs), newNextToken, nil
}

func (r *PgxSubscriptionRepository) FindActiveSubscriptionsByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE user_id = $1 AND is_active = TRUE AND deleted_at IS NULL
		ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active subscriptions: %w", err)
	}
	defer rows.Close()

	modelSubs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Subscription, error) {
		return scanSubscription(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan active subscription rows: %w", err)
	}

	return mapping.ToDomainSubscriptionSlice(modelSubs), nil
}

func (r *PgxSubscriptionRepository) UpdateSubscription(ctx context.Context, subscription domain.Subscription) error {
	m := mapping.ToModelSubscription(subscription)
	query := `
		UPDATE subscriptions
		SET name = $1, amount = $2, currency_code = $3, billing_cycle = $4, next_billing_date = $5,
			category = $6, notes = $7, is_active = $8, last_updated_at = $9, last_updated_by = $10
		WHERE subscription_id = $11 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Name,
		m.Amount,
		m.CurrencyCode,
		m.BillingCycle,
		m.NextBillingDate,
		m.Category,
		m.Notes,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.SubscriptionID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update subscription query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("subscription not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxSubscriptionRepository) MarkSubscriptionDeleted(ctx context.Context, subscriptionID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE subscriptions
		SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
		WHERE subscription_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, deletedAt, deletedBy, subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to mark subscription as deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("subscription not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}
