package services

import (
	"context"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
)

// BudgetSvcFacade defines operations for managing a user's monthly budget.
type BudgetSvcFacade interface {
	// SetBudget creates or replaces the user's monthly budget.
	SetBudget(ctx context.Context, userID string, req dto.SetBudgetRequest) (*domain.Budget, error)

	// GetBudget returns the user's budget, or ErrNotFound when none is set.
	GetBudget(ctx context.Context, userID string) (*domain.Budget, error)

	// GetBudgetReport returns the budget together with current-month spending
	// normalized into the budget currency.
	GetBudgetReport(ctx context.Context, userID string) (*domain.BudgetReport, error)

	// ClearBudget removes the user's budget.
	ClearBudget(ctx context.Context, userID string) error
}
