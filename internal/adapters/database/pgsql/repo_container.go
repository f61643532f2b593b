package pgsql

import (
	portsrepo "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository onto the shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	subscriptionRepo := newPgxSubscriptionRepository(dbPool)
	budgetRepo := newPgxBudgetRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:         userRepo,
		SubscriptionRepo: subscriptionRepo,
		BudgetRepo:       budgetRepo,
	}
}
