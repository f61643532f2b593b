package services_test

import (
	"context"
	"testing"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/adapters/cache"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AlertNotifier ---
type MockAlertNotifier struct {
	mock.Mock
}

func (m *MockAlertNotifier) Notify(ctx context.Context, alert domain.RateAlert, currentRate float64) error {
	args := m.Called(ctx, alert, currentRate)
	return args.Error(0)
}

// --- Test Suite ---
type AlertServiceTestSuite struct {
	suite.Suite
	cache    *cache.MemoryCache
	notifier *MockAlertNotifier
	service  portssvc.AlertSvcFacade
}

func (suite *AlertServiceTestSuite) SetupTest() {
	suite.cache = cache.NewMemoryCache()
	suite.notifier = new(MockAlertNotifier)
	suite.service = services.NewAlertService(suite.cache, suite.notifier)
}

func (suite *AlertServiceTestSuite) createAlert(userID string, condition string, target float64) *domain.RateAlert {
	alert, err := suite.service.CreateAlert(context.Background(), userID, dto.CreateAlertRequest{
		FromCurrency: "USD",
		ToCurrency:   "EUR",
		TargetRate:   target,
		Condition:    condition,
	})
	suite.Require().NoError(err)
	return alert
}

func eurSnapshot(rate float64) *domain.RateSnapshot {
	return &domain.RateSnapshot{Base: "USD", Rates: map[string]float64{"EUR": rate}}
}

// --- CreateAlert ---

func (suite *AlertServiceTestSuite) TestCreateAlert_Success() {
	alert, err := suite.service.CreateAlert(context.Background(), "user-1", dto.CreateAlertRequest{
		FromCurrency: "usd",
		ToCurrency:   "eur",
		TargetRate:   0.9,
		Condition:    "above",
	})

	suite.Require().NoError(err)
	suite.NotEmpty(alert.AlertID)
	suite.Equal("user-1", alert.UserID)
	suite.Equal("USD", alert.FromCurrency)
	suite.Equal("EUR", alert.ToCurrency)
	suite.Equal(domain.AlertAbove, alert.Condition)
	suite.True(alert.Active)
	suite.False(alert.CreatedAt.IsZero())
}

func (suite *AlertServiceTestSuite) TestCreateAlert_RejectsNonPositiveTarget() {
	_, err := suite.service.CreateAlert(context.Background(), "user-1", dto.CreateAlertRequest{
		FromCurrency: "USD",
		ToCurrency:   "EUR",
		TargetRate:   -1,
		Condition:    "above",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AlertServiceTestSuite) TestCreateAlert_RejectsSameCurrencyPair() {
	_, err := suite.service.CreateAlert(context.Background(), "user-1", dto.CreateAlertRequest{
		FromCurrency: "USD",
		ToCurrency:   "usd",
		TargetRate:   1.1,
		Condition:    "above",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- ListAlerts ---

func (suite *AlertServiceTestSuite) TestListAlerts_FiltersByOwner() {
	mine := suite.createAlert("user-1", "above", 0.9)
	suite.createAlert("user-2", "below", 0.8)

	alerts, err := suite.service.ListAlerts(context.Background(), "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(alerts, 1)
	suite.Equal(mine.AlertID, alerts[0].AlertID)
}

func (suite *AlertServiceTestSuite) TestListAlerts_EmptyWithoutAlerts() {
	alerts, err := suite.service.ListAlerts(context.Background(), "user-1")

	suite.Require().NoError(err)
	suite.Empty(alerts)
}

// --- DeleteAlert ---

func (suite *AlertServiceTestSuite) TestDeleteAlert_Success() {
	alert := suite.createAlert("user-1", "above", 0.9)

	err := suite.service.DeleteAlert(context.Background(), "user-1", alert.AlertID)
	suite.Require().NoError(err)

	alerts, err := suite.service.ListAlerts(context.Background(), "user-1")
	suite.Require().NoError(err)
	suite.Empty(alerts)
}

func (suite *AlertServiceTestSuite) TestDeleteAlert_NotFound() {
	err := suite.service.DeleteAlert(context.Background(), "user-1", "missing-id")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AlertServiceTestSuite) TestDeleteAlert_OtherUsersAlertReadsAsNotFound() {
	alert := suite.createAlert("user-1", "above", 0.9)

	err := suite.service.DeleteAlert(context.Background(), "user-2", alert.AlertID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	alerts, err := suite.service.ListAlerts(context.Background(), "user-1")
	suite.Require().NoError(err)
	suite.Len(alerts, 1)
}

// --- EvaluateAlerts ---

func (suite *AlertServiceTestSuite) TestEvaluateAlerts_AboveConditionFires() {
	alert := suite.createAlert("user-1", "above", 0.9)
	suite.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(a domain.RateAlert) bool {
		return a.AlertID == alert.AlertID
	}), 0.95).Return(nil).Once()

	fired := suite.service.EvaluateAlerts(context.Background(), eurSnapshot(0.95))

	suite.Require().Len(fired, 1)
	suite.Equal(alert.AlertID, fired[0].AlertID)
	suite.notifier.AssertExpectations(suite.T())

	alerts, err := suite.service.ListAlerts(context.Background(), "user-1")
	suite.Require().NoError(err)
	suite.False(alerts[0].Active)
}

func (suite *AlertServiceTestSuite) TestEvaluateAlerts_BelowConditionFires() {
	suite.createAlert("user-1", "below", 0.9)
	suite.notifier.On("Notify", mock.Anything, mock.Anything, 0.85).Return(nil).Once()

	fired := suite.service.EvaluateAlerts(context.Background(), eurSnapshot(0.85))

	suite.Len(fired, 1)
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *AlertServiceTestSuite) TestEvaluateAlerts_ExactTargetDoesNotFire() {
	suite.createAlert("user-1", "above", 0.9)

	fired := suite.service.EvaluateAlerts(context.Background(), eurSnapshot(0.9))

	suite.Empty(fired)
	suite.notifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AlertServiceTestSuite) TestEvaluateAlerts_SkipsOtherBases() {
	suite.createAlert("user-1", "above", 0.9)

	fired := suite.service.EvaluateAlerts(context.Background(), &domain.RateSnapshot{
		Base:  "GBP",
		Rates: map[string]float64{"EUR": 1.2},
	})

	suite.Empty(fired)
	alerts, err := suite.service.ListAlerts(context.Background(), "user-1")
	suite.Require().NoError(err)
	suite.True(alerts[0].Active)
}

func (suite *AlertServiceTestSuite) TestEvaluateAlerts_MissingTargetStaysActive() {
	alert := suite.createAlert("user-1", "above", 0.9)

	fired := suite.service.EvaluateAlerts(context.Background(), &domain.RateSnapshot{
		Base:  "USD",
		Rates: map[string]float64{"GBP": 0.8},
	})
	suite.Empty(fired)

	// The untouched alert fires once its pair shows up in a later snapshot.
	suite.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(a domain.RateAlert) bool {
		return a.AlertID == alert.AlertID
	}), 0.95).Return(nil).Once()

	fired = suite.service.EvaluateAlerts(context.Background(), eurSnapshot(0.95))
	suite.Len(fired, 1)
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *AlertServiceTestSuite) TestEvaluateAlerts_NotifyFailureStillDeactivates() {
	suite.createAlert("user-1", "above", 0.9)
	suite.notifier.On("Notify", mock.Anything, mock.Anything, 0.95).Return(assert.AnError).Once()

	fired := suite.service.EvaluateAlerts(context.Background(), eurSnapshot(0.95))

	suite.Len(fired, 1)
	alerts, err := suite.service.ListAlerts(context.Background(), "user-1")
	suite.Require().NoError(err)
	suite.False(alerts[0].Active)
}

// --- Persistence ---

func (suite *AlertServiceTestSuite) TestAlerts_SurviveServiceRestart() {
	alert := suite.createAlert("user-1", "above", 0.9)

	rebuilt := services.NewAlertService(suite.cache, suite.notifier)
	alerts, err := rebuilt.ListAlerts(context.Background(), "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(alerts, 1)
	suite.Equal(alert.AlertID, alerts[0].AlertID)
}

// --- Run Suite ---
func TestAlertService(t *testing.T) {
	suite.Run(t, new(AlertServiceTestSuite))
}
