package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	portsrepo "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/repositories"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/models"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budget data.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryWithTx {
	return &PgxBudgetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.BudgetRepositoryWithTx = (*PgxBudgetRepository)(nil)

// SaveBudget inserts or replaces the user's budget. Users hold at most one
// budget row, keyed by user_id.
func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	m := mapping.ToModelBudget(budget)
	query := `
		INSERT INTO budgets (budget_id, user_id, amount, currency_code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			amount = EXCLUDED.amount,
			currency_code = EXCLUDED.currency_code,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BudgetID,
		m.UserID,
		m.Amount,
		m.CurrencyCode,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save budget for user %s: %w", m.UserID, err)
	}
	return nil
}

func (r *PgxBudgetRepository) FindBudgetByUser(ctx context.Context, userID string) (*domain.Budget, error) {
	query := `
		SELECT budget_id, user_id, amount, currency_code, created_at, created_by, last_updated_at, last_updated_by
		FROM budgets
		WHERE user_id = $1;
	`
	var m models.Budget
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&m.BudgetID,
		&m.UserID,
		&m.Amount,
		&m.CurrencyCode,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget for user %s: %w", userID, err)
	}

	domainBudget := mapping.ToDomainBudget(m)
	return &domainBudget, nil
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, userID string) error {
	query := `DELETE FROM budgets WHERE user_id = $1;`
	cmdTag, err := r.Pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget for user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
