package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockBudgetRepository is a mock implementation of repositories.BudgetRepositoryFacade
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindBudgetByUser(ctx context.Context, userID string) (*domain.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockReportingService is a mock implementation of portssvc.ReportingSvcFacade
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetSpendingSummary(ctx context.Context, userID string, currencyCode string) (*domain.SpendingSummary, error) {
	args := m.Called(ctx, userID, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpendingSummary), args.Error(1)
}

type BudgetServiceTestSuite struct {
	suite.Suite
	repo      *MockBudgetRepository
	reporting *MockReportingService
	clock     *fakeClock
	service   portssvc.BudgetSvcFacade
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.repo = new(MockBudgetRepository)
	suite.reporting = new(MockReportingService)
	suite.clock = &fakeClock{at: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	suite.service = services.NewBudgetService(suite.repo, suite.reporting, services.WithBudgetClock(suite.clock.Now))
}

func (suite *BudgetServiceTestSuite) storedBudget(amount string) *domain.Budget {
	created := suite.clock.Now().AddDate(0, -2, 0)
	return &domain.Budget{
		BudgetID:     "budget-1",
		UserID:       "user-1",
		Amount:       decimal.RequireFromString(amount),
		CurrencyCode: "USD",
		AuditFields: domain.AuditFields{
			CreatedAt:     created,
			CreatedBy:     "user-1",
			LastUpdatedAt: created,
			LastUpdatedBy: "user-1",
		},
	}
}

func (suite *BudgetServiceTestSuite) summaryWithMonthlyTotal(total string) *domain.SpendingSummary {
	return &domain.SpendingSummary{
		CurrencyCode: "USD",
		MonthlyTotal: decimal.RequireFromString(total),
		GeneratedAt:  suite.clock.Now(),
	}
}

func (suite *BudgetServiceTestSuite) TestSetBudget_CreatesNewBudget() {
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(nil, apperrors.ErrNotFound).Once()
	suite.repo.On("SaveBudget", mock.Anything, mock.MatchedBy(func(b domain.Budget) bool {
		return b.UserID == "user-1" &&
			b.CurrencyCode == "USD" &&
			b.CreatedAt.Equal(suite.clock.Now()) &&
			b.CreatedBy == "user-1"
	})).Return(nil).Once()

	budget, err := suite.service.SetBudget(context.Background(), "user-1", dto.SetBudgetRequest{
		Amount:       decimal.RequireFromString("200.00"),
		CurrencyCode: "usd",
	})

	suite.NoError(err)
	suite.NotEmpty(budget.BudgetID)
	suite.Equal("200", budget.Amount.String())
	suite.Equal("USD", budget.CurrencyCode)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestSetBudget_ReplacementKeepsIdentity() {
	existing := suite.storedBudget("100.00")
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(existing, nil).Once()

	var saved domain.Budget
	suite.repo.On("SaveBudget", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Budget)
		}).Return(nil).Once()

	budget, err := suite.service.SetBudget(context.Background(), "user-1", dto.SetBudgetRequest{
		Amount:       decimal.RequireFromString("300.00"),
		CurrencyCode: "EUR",
	})

	suite.NoError(err)
	suite.Equal("budget-1", budget.BudgetID, "Replacing must not mint a new budget ID")
	suite.Equal(existing.CreatedAt, saved.CreatedAt)
	suite.Equal(existing.CreatedBy, saved.CreatedBy)
	suite.Equal("300", saved.Amount.String())
	suite.Equal("EUR", saved.CurrencyCode)
	suite.Equal(suite.clock.Now(), saved.LastUpdatedAt)
}

func (suite *BudgetServiceTestSuite) TestSetBudget_RejectsNonPositiveAmount() {
	_, err := suite.service.SetBudget(context.Background(), "user-1", dto.SetBudgetRequest{
		Amount:       decimal.Zero,
		CurrencyCode: "USD",
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.repo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestSetBudget_LookupErrorSurfaces() {
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(nil, assert.AnError).Once()

	_, err := suite.service.SetBudget(context.Background(), "user-1", dto.SetBudgetRequest{
		Amount:       decimal.RequireFromString("200.00"),
		CurrencyCode: "USD",
	})

	suite.ErrorIs(err, assert.AnError)
	suite.repo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestGetBudget_ReturnsStoredBudget() {
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(suite.storedBudget("150.00"), nil).Once()

	budget, err := suite.service.GetBudget(context.Background(), "user-1")

	suite.NoError(err)
	suite.Equal("budget-1", budget.BudgetID)
	suite.Equal("150", budget.Amount.String())
	suite.Equal("USD", budget.CurrencyCode)
}

func (suite *BudgetServiceTestSuite) TestGetBudget_NoBudgetSet() {
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetBudget(context.Background(), "user-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BudgetServiceTestSuite) TestGetBudgetReport_UnderBudget() {
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(suite.storedBudget("100.00"), nil).Once()
	suite.reporting.On("GetSpendingSummary", mock.Anything, "user-1", "USD").
		Return(suite.summaryWithMonthlyTotal("50.00"), nil).Once()

	report, err := suite.service.GetBudgetReport(context.Background(), "user-1")

	suite.NoError(err)
	suite.Equal(domain.BudgetUnder, report.Status)
	suite.Equal("50", report.MonthlySpend.String())
	suite.InDelta(0.5, report.Utilization, 1e-9)
}

// Utilization of exactly 80% reads as nearly spent, not comfortably under.
func (suite *BudgetServiceTestSuite) TestGetBudgetReport_NearAtThreshold() {
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(suite.storedBudget("100.00"), nil).Once()
	suite.reporting.On("GetSpendingSummary", mock.Anything, "user-1", "USD").
		Return(suite.summaryWithMonthlyTotal("80.00"), nil).Once()

	report, err := suite.service.GetBudgetReport(context.Background(), "user-1")

	suite.NoError(err)
	suite.Equal(domain.BudgetNear, report.Status)
	suite.InDelta(0.8, report.Utilization, 1e-9)
}

// Spending the full budget is still NEAR; only exceeding it tips to OVER.
func (suite *BudgetServiceTestSuite) TestGetBudgetReport_NearAtFullUtilization() {
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(suite.storedBudget("100.00"), nil).Once()
	suite.reporting.On("GetSpendingSummary", mock.Anything, "user-1", "USD").
		Return(suite.summaryWithMonthlyTotal("100.00"), nil).Once()

	report, err := suite.service.GetBudgetReport(context.Background(), "user-1")

	suite.NoError(err)
	suite.Equal(domain.BudgetNear, report.Status)
	suite.InDelta(1.0, report.Utilization, 1e-9)
}

func (suite *BudgetServiceTestSuite) TestGetBudgetReport_OverBudget() {
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(suite.storedBudget("100.00"), nil).Once()
	suite.reporting.On("GetSpendingSummary", mock.Anything, "user-1", "USD").
		Return(suite.summaryWithMonthlyTotal("120.00"), nil).Once()

	report, err := suite.service.GetBudgetReport(context.Background(), "user-1")

	suite.NoError(err)
	suite.Equal(domain.BudgetOver, report.Status)
	suite.InDelta(1.2, report.Utilization, 1e-9)
}

func (suite *BudgetServiceTestSuite) TestGetBudgetReport_SpendsInBudgetCurrency() {
	budget := suite.storedBudget("100.00")
	budget.CurrencyCode = "EUR"
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(budget, nil).Once()
	suite.reporting.On("GetSpendingSummary", mock.Anything, "user-1", "EUR").
		Return(suite.summaryWithMonthlyTotal("40.00"), nil).Once()

	report, err := suite.service.GetBudgetReport(context.Background(), "user-1")

	suite.NoError(err)
	suite.Equal("EUR", report.Budget.CurrencyCode)
	suite.reporting.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestGetBudgetReport_NoBudgetSet() {
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetBudgetReport(context.Background(), "user-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.reporting.AssertNotCalled(suite.T(), "GetSpendingSummary", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestGetBudgetReport_SummaryErrorSurfaces() {
	suite.repo.On("FindBudgetByUser", mock.Anything, "user-1").Return(suite.storedBudget("100.00"), nil).Once()
	suite.reporting.On("GetSpendingSummary", mock.Anything, "user-1", "USD").
		Return(nil, assert.AnError).Once()

	_, err := suite.service.GetBudgetReport(context.Background(), "user-1")

	suite.ErrorIs(err, assert.AnError)
}

func (suite *BudgetServiceTestSuite) TestClearBudget_Success() {
	suite.repo.On("DeleteBudget", mock.Anything, "user-1").Return(nil).Once()

	err := suite.service.ClearBudget(context.Background(), "user-1")

	suite.NoError(err)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestClearBudget_MissingBudgetIsNoOp() {
	suite.repo.On("DeleteBudget", mock.Anything, "user-1").Return(apperrors.ErrNotFound).Once()

	err := suite.service.ClearBudget(context.Background(), "user-1")

	suite.NoError(err)
}

func (suite *BudgetServiceTestSuite) TestClearBudget_ErrorSurfaces() {
	suite.repo.On("DeleteBudget", mock.Anything, "user-1").Return(assert.AnError).Once()

	err := suite.service.ClearBudget(context.Background(), "user-1")

	suite.ErrorIs(err, assert.AnError)
}

func TestBudgetService(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
