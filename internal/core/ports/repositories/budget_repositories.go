package repositories

import (
	"context"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// BudgetReader defines read operations for budget data
type BudgetReader interface {
	// FindBudgetByUser retrieves a user's budget, if one is set.
	FindBudgetByUser(ctx context.Context, userID string) (*domain.Budget, error)
}

// BudgetWriter defines write operations for budget data
type BudgetWriter interface {
	// SaveBudget persists a budget, replacing any existing one for the same user.
	SaveBudget(ctx context.Context, budget domain.Budget) error

	// DeleteBudget removes a user's budget.
	DeleteBudget(ctx context.Context, userID string) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}

// BudgetRepositoryWithTx extends BudgetRepositoryFacade with transaction capabilities
type BudgetRepositoryWithTx interface {
	BudgetRepositoryFacade
	TransactionManager
}
