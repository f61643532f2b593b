package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/adapters/cache"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockRateConverter is a mock implementation of portssvc.RateConverterSvc
type MockRateConverter struct {
	mock.Mock
}

func (m *MockRateConverter) ConvertAmount(ctx context.Context, amount float64, from, to string, rate *float64) float64 {
	args := m.Called(ctx, amount, from, to, rate)
	return args.Get(0).(float64)
}

func (m *MockRateConverter) BatchConvert(ctx context.Context, amounts []float64, from, to string) []float64 {
	args := m.Called(ctx, amounts, from, to)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]float64)
}

type ReportingServiceTestSuite struct {
	suite.Suite
	subscriptionRepo *MockSubscriptionRepository
	userRepo         *MockUserRepository
	converter        *MockRateConverter
	clock            *fakeClock
	service          portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.subscriptionRepo = new(MockSubscriptionRepository)
	suite.userRepo = new(MockUserRepository)
	suite.converter = new(MockRateConverter)
	suite.clock = &fakeClock{at: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	// Decimal place lookups come from the built-in table, so the currency
	// service needs no provider expectations here.
	currencySvc := services.NewCurrencyService(testTTLConfig(), new(MockRateSource), cache.NewMemoryCache())

	suite.service = services.NewReportingService(
		suite.subscriptionRepo,
		suite.userRepo,
		suite.converter,
		currencySvc,
		services.WithReportingClock(suite.clock.Now),
	)
}

func activeSub(id, name, category, amount, currencyCode string, cycle domain.BillingCycle) domain.Subscription {
	return domain.Subscription{
		SubscriptionID: id,
		UserID:         "user-1",
		Name:           name,
		Amount:         decimal.RequireFromString(amount),
		CurrencyCode:   currencyCode,
		BillingCycle:   cycle,
		Category:       category,
		IsActive:       true,
	}
}

func (suite *ReportingServiceTestSuite) TestGetSpendingSummary_SingleCurrency() {
	suite.subscriptionRepo.On("FindActiveSubscriptionsByUser", mock.Anything, "user-1").
		Return([]domain.Subscription{
			activeSub("sub-1", "Netflix", "Entertainment", "15.49", "USD", domain.BillingMonthly),
			activeSub("sub-2", "Spotify", "Music", "11.99", "USD", domain.BillingMonthly),
		}, nil).Once()

	summary, err := suite.service.GetSpendingSummary(context.Background(), "user-1", "USD")

	suite.NoError(err)
	suite.Equal("USD", summary.CurrencyCode)
	suite.Equal("27.48", summary.MonthlyTotal.String())
	suite.Equal("329.76", summary.YearlyTotal.String())
	suite.Equal(suite.clock.Now(), summary.GeneratedAt)

	suite.Require().Len(summary.Items, 2)
	suite.Equal("Netflix", summary.Items[0].Name, "Largest spend comes first")
	suite.Equal("Spotify", summary.Items[1].Name)

	suite.Require().Len(summary.Categories, 2)
	suite.Equal("Entertainment", summary.Categories[0].Category)
	suite.Equal("15.49", summary.Categories[0].Total.String())
	suite.Equal("Music", summary.Categories[1].Category)
	suite.Equal("11.99", summary.Categories[1].Total.String())

	suite.converter.AssertNotCalled(suite.T(), "ConvertAmount",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestGetSpendingSummary_NormalizesBillingCycles() {
	suite.subscriptionRepo.On("FindActiveSubscriptionsByUser", mock.Anything, "user-1").
		Return([]domain.Subscription{
			activeSub("sub-1", "Annual Pass", "Transport", "120.00", "USD", domain.BillingYearly),
			activeSub("sub-2", "Coffee Club", "Food", "12.00", "USD", domain.BillingWeekly),
			activeSub("sub-3", "Quarterly Box", "Shopping", "30.00", "USD", domain.BillingQuarterly),
		}, nil).Once()

	summary, err := suite.service.GetSpendingSummary(context.Background(), "user-1", "USD")

	suite.NoError(err)
	suite.Equal("72", summary.MonthlyTotal.String())
	suite.Equal("864", summary.YearlyTotal.String())

	suite.Require().Len(summary.Items, 3)
	suite.Equal("Coffee Club", summary.Items[0].Name)
	suite.Equal("52", summary.Items[0].MonthlyAmount.String())
	suite.Equal("Annual Pass", summary.Items[1].Name, "Equal amounts tie-break alphabetically")
	suite.Equal("10", summary.Items[1].MonthlyAmount.String())
	suite.Equal("Quarterly Box", summary.Items[2].Name)
	suite.Equal("10", summary.Items[2].MonthlyAmount.String())
}

func (suite *ReportingServiceTestSuite) TestGetSpendingSummary_ConvertsForeignCurrencies() {
	suite.subscriptionRepo.On("FindActiveSubscriptionsByUser", mock.Anything, "user-1").
		Return([]domain.Subscription{
			activeSub("sub-1", "Deezer", "Music", "10.00", "EUR", domain.BillingMonthly),
		}, nil).Once()
	suite.converter.On("ConvertAmount", mock.Anything, 10.0, "EUR", "USD", (*float64)(nil)).
		Return(10.87).Once()

	summary, err := suite.service.GetSpendingSummary(context.Background(), "user-1", "USD")

	suite.NoError(err)
	suite.Equal("10.87", summary.MonthlyTotal.String())
	suite.Require().Len(summary.Items, 1)
	suite.Equal("10", summary.Items[0].MonthlyAmount.String(), "Monthly amount stays in the billing currency")
	suite.Equal("10.87", summary.Items[0].ConvertedAmount.String())
	suite.converter.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetSpendingSummary_UsesPreferredCurrencyWhenUnspecified() {
	suite.userRepo.On("FindUserByID", mock.Anything, "user-1").
		Return(&domain.User{UserID: "user-1", PreferredCurrency: "EUR"}, nil).Once()
	suite.subscriptionRepo.On("FindActiveSubscriptionsByUser", mock.Anything, "user-1").
		Return([]domain.Subscription{
			activeSub("sub-1", "Netflix", "Entertainment", "10.00", "USD", domain.BillingMonthly),
		}, nil).Once()
	suite.converter.On("ConvertAmount", mock.Anything, 10.0, "USD", "EUR", (*float64)(nil)).
		Return(9.2).Once()

	summary, err := suite.service.GetSpendingSummary(context.Background(), "user-1", "")

	suite.NoError(err)
	suite.Equal("EUR", summary.CurrencyCode)
	suite.Equal("9.2", summary.MonthlyTotal.String())
	suite.userRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetSpendingSummary_FallsBackToUSDWithoutPreference() {
	suite.userRepo.On("FindUserByID", mock.Anything, "user-1").
		Return(&domain.User{UserID: "user-1"}, nil).Once()
	suite.subscriptionRepo.On("FindActiveSubscriptionsByUser", mock.Anything, "user-1").
		Return([]domain.Subscription{
			activeSub("sub-1", "Netflix", "Entertainment", "10.00", "USD", domain.BillingMonthly),
		}, nil).Once()

	summary, err := suite.service.GetSpendingSummary(context.Background(), "user-1", "")

	suite.NoError(err)
	suite.Equal("USD", summary.CurrencyCode)
	suite.converter.AssertNotCalled(suite.T(), "ConvertAmount",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestGetSpendingSummary_ZeroDecimalTarget() {
	suite.subscriptionRepo.On("FindActiveSubscriptionsByUser", mock.Anything, "user-1").
		Return([]domain.Subscription{
			activeSub("sub-1", "Netflix", "Entertainment", "10.00", "USD", domain.BillingMonthly),
		}, nil).Once()
	suite.converter.On("ConvertAmount", mock.Anything, 10.0, "USD", "JPY", (*float64)(nil)).
		Return(1501.0).Once()

	summary, err := suite.service.GetSpendingSummary(context.Background(), "user-1", "jpy")

	suite.NoError(err)
	suite.Equal("JPY", summary.CurrencyCode)
	suite.Equal("1501", summary.MonthlyTotal.String())
	suite.Equal("18012", summary.YearlyTotal.String())
}

func (suite *ReportingServiceTestSuite) TestGetSpendingSummary_GroupsUncategorized() {
	suite.subscriptionRepo.On("FindActiveSubscriptionsByUser", mock.Anything, "user-1").
		Return([]domain.Subscription{
			activeSub("sub-1", "Mystery Service", "", "5.00", "USD", domain.BillingMonthly),
			activeSub("sub-2", "Another One", "", "3.00", "USD", domain.BillingMonthly),
		}, nil).Once()

	summary, err := suite.service.GetSpendingSummary(context.Background(), "user-1", "USD")

	suite.NoError(err)
	suite.Require().Len(summary.Categories, 1)
	suite.Equal("Uncategorized", summary.Categories[0].Category)
	suite.Equal("8", summary.Categories[0].Total.String())
}

func (suite *ReportingServiceTestSuite) TestGetSpendingSummary_NoActiveSubscriptions() {
	suite.subscriptionRepo.On("FindActiveSubscriptionsByUser", mock.Anything, "user-1").
		Return([]domain.Subscription{}, nil).Once()

	summary, err := suite.service.GetSpendingSummary(context.Background(), "user-1", "USD")

	suite.NoError(err)
	suite.Equal("0", summary.MonthlyTotal.String())
	suite.Equal("0", summary.YearlyTotal.String())
	suite.Empty(summary.Items)
	suite.Empty(summary.Categories)
}

func (suite *ReportingServiceTestSuite) TestGetSpendingSummary_RepoError() {
	suite.subscriptionRepo.On("FindActiveSubscriptionsByUser", mock.Anything, "user-1").
		Return(nil, assert.AnError).Once()

	_, err := suite.service.GetSpendingSummary(context.Background(), "user-1", "USD")

	suite.ErrorIs(err, assert.AnError)
}

func (suite *ReportingServiceTestSuite) TestGetSpendingSummary_UserLookupError() {
	suite.userRepo.On("FindUserByID", mock.Anything, "user-1").
		Return(nil, assert.AnError).Once()

	_, err := suite.service.GetSpendingSummary(context.Background(), "user-1", "")

	suite.ErrorIs(err, assert.AnError)
	suite.subscriptionRepo.AssertNotCalled(suite.T(), "FindActiveSubscriptionsByUser", mock.Anything, mock.Anything)
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
