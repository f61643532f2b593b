package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/repositories"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// nearBudgetThreshold is the utilization at which a budget stops reading as
// comfortably under and starts reading as nearly spent.
var nearBudgetThreshold = decimal.NewFromFloat(0.8)

// budgetService manages the per-user monthly budget and its utilization report.
type budgetService struct {
	repo      repositories.BudgetRepositoryFacade
	reporting portssvc.ReportingSvcFacade
	now       func() time.Time
}

// BudgetServiceOption configures optional budgetService behavior.
type BudgetServiceOption func(*budgetService)

// WithBudgetClock overrides the service's time source.
func WithBudgetClock(now func() time.Time) BudgetServiceOption {
	return func(s *budgetService) {
		s.now = now
	}
}

// NewBudgetService creates a new budget service.
func NewBudgetService(repo repositories.BudgetRepositoryFacade, reporting portssvc.ReportingSvcFacade, options ...BudgetServiceOption) portssvc.BudgetSvcFacade {
	s := &budgetService{
		repo:      repo,
		reporting: reporting,
		now:       time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// SetBudget creates or replaces the user's monthly budget. A user has at most
// one budget; setting a new one overwrites the old amount and currency.
func (s *budgetService) SetBudget(ctx context.Context, userID string, req dto.SetBudgetRequest) (*domain.Budget, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: budget amount must be positive", apperrors.ErrValidation)
	}

	now := s.now().UTC()
	budget := domain.Budget{
		BudgetID:     uuid.NewString(),
		UserID:       userID,
		Amount:       req.Amount,
		CurrencyCode: strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// Replacing keeps the original budget ID and creation audit trail.
	existing, err := s.repo.FindBudgetByUser(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up existing budget: %w", err)
	}
	if existing != nil {
		budget.BudgetID = existing.BudgetID
		budget.CreatedAt = existing.CreatedAt
		budget.CreatedBy = existing.CreatedBy
	}

	if err := s.repo.SaveBudget(ctx, budget); err != nil {
		logger.Error("Failed to save budget", "error", err, slog.String("userID", userID))
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	logger.Info("Budget set",
		slog.String("userID", userID),
		slog.String("currency", budget.CurrencyCode))
	return &budget, nil
}

// GetBudget returns the user's budget, or ErrNotFound when none is set.
func (s *budgetService) GetBudget(ctx context.Context, userID string) (*domain.Budget, error) {
	budget, err := s.repo.FindBudgetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}
	return budget, nil
}

// GetBudgetReport compares current monthly spending, normalized to the budget
// currency, against the budgeted amount.
func (s *budgetService) GetBudgetReport(ctx context.Context, userID string) (*domain.BudgetReport, error) {
	budget, err := s.repo.FindBudgetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	summary, err := s.reporting.GetSpendingSummary(ctx, userID, budget.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to compute spending for budget report: %w", err)
	}

	utilization := decimal.Zero
	if budget.Amount.IsPositive() {
		utilization = summary.MonthlyTotal.Div(budget.Amount)
	}

	status := domain.BudgetUnder
	switch {
	case utilization.GreaterThan(decimal.NewFromInt(1)):
		status = domain.BudgetOver
	case utilization.GreaterThanOrEqual(nearBudgetThreshold):
		status = domain.BudgetNear
	}

	return &domain.BudgetReport{
		Budget:       *budget,
		MonthlySpend: summary.MonthlyTotal,
		Utilization:  utilization.InexactFloat64(),
		Status:       status,
	}, nil
}

// ClearBudget removes the user's budget. Clearing an unset budget is a no-op.
func (s *budgetService) ClearBudget(ctx context.Context, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.repo.DeleteBudget(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		logger.Error("Failed to clear budget", "error", err, slog.String("userID", userID))
		return fmt.Errorf("failed to clear budget: %w", err)
	}

	logger.Info("Budget cleared", slog.String("userID", userID))
	return nil
}
