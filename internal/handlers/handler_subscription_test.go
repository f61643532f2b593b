package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/handlers"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SubscriptionService ---
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) GetSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) ListSubscriptions(ctx context.Context, userID string, params dto.ListSubscriptionsParams) (*dto.ListSubscriptionsResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListSubscriptionsResponse), args.Error(1)
}

func (m *MockSubscriptionService) ListUpcomingRenewals(ctx context.Context, userID string, withinDays int) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID, withinDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) CreateSubscription(ctx context.Context, userID string, req dto.CreateSubscriptionRequest) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) UpdateSubscription(ctx context.Context, userID string, subscriptionID string, req dto.UpdateSubscriptionRequest) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, subscriptionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) DeleteSubscription(ctx context.Context, userID string, subscriptionID string) error {
	args := m.Called(ctx, userID, subscriptionID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.SubscriptionSvcFacade = (*MockSubscriptionService)(nil)

// --- Mock ReportingService ---
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

// Ensure mock implements the interface
var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

// --- Test Suite ---
type SubscriptionHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockSubscriptionSvc  *MockSubscriptionService
	mockReportingService *MockReportingService
	cfg                  *config.Config
	userID               string
}

func (suite *SubscriptionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.cfg = testConfig()
	suite.userID = uuid.NewString()

	suite.mockSubscriptionSvc = new(MockSubscriptionService)
	suite.mockReportingService = new(MockReportingService)

	services := &portssvc.ServiceContainer{
		Subscription: suite.mockSubscriptionSvc,
		Reporting:    suite.mockReportingService,
	}
	handlers.RegisterRoutes(suite.router, suite.cfg, services)
}

func (suite *SubscriptionHandlerTestSuite) serve(method, url string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+generateTestToken(suite.T(), suite.cfg.JWTSecret, suite.userID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// storedSubscription builds a subscription fixture owned by the suite's user.
func (suite *SubscriptionHandlerTestSuite) storedSubscription(name string) *domain.Subscription {
	return &domain.Subscription{
		SubscriptionID:  uuid.NewString(),
		UserID:          suite.userID,
		Name:            name,
		Amount:          decimal.NewFromFloat(15.49),
		CurrencyCode:    "USD",
		BillingCycle:    domain.BillingMonthly,
		NextBillingDate: time.Now().UTC().AddDate(0, 0, 3),
		Category:        "Entertainment",
		IsActive:        true,
	}
}

// --- Test Cases ---

func (suite *SubscriptionHandlerTestSuite) TestCreateSubscription_Success() {
	created := suite.storedSubscription("Netflix")
	suite.mockSubscriptionSvc.On("CreateSubscription", mock.Anything, suite.userID,
		mock.MatchedBy(func(req dto.CreateSubscriptionRequest) bool {
			return req.Name == "Netflix" && req.CurrencyCode == "USD" && req.BillingCycle == "MONTHLY"
		})).Return(created, nil).Once()

	body := `{"name":"Netflix","amount":"15.49","currencyCode":"USD","billingCycle":"MONTHLY","nextBillingDate":"2025-09-01T00:00:00Z","category":"Entertainment"}`
	w := suite.serve(http.MethodPost, "/api/v1/subscriptions", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.SubscriptionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.SubscriptionID, resp.SubscriptionID)
	suite.Equal("Netflix", resp.Name)
	suite.mockSubscriptionSvc.AssertExpectations(suite.T())
}

func (suite *SubscriptionHandlerTestSuite) TestCreateSubscription_RejectsUnknownBillingCycle() {
	body := `{"name":"Netflix","amount":"15.49","currencyCode":"USD","billingCycle":"BIWEEKLY","nextBillingDate":"2025-09-01T00:00:00Z"}`
	w := suite.serve(http.MethodPost, "/api/v1/subscriptions", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSubscriptionSvc.AssertNotCalled(suite.T(), "CreateSubscription")
}

func (suite *SubscriptionHandlerTestSuite) TestGetSubscription_Success() {
	sub := suite.storedSubscription("Spotify")
	suite.mockSubscriptionSvc.On("GetSubscriptionByID", mock.Anything, suite.userID, sub.SubscriptionID).
		Return(sub, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/subscriptions/"+sub.SubscriptionID, "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SubscriptionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Spotify", resp.Name)
}

func (suite *SubscriptionHandlerTestSuite) TestGetSubscription_NotFound() {
	subscriptionID := uuid.NewString()
	suite.mockSubscriptionSvc.On("GetSubscriptionByID", mock.Anything, suite.userID, subscriptionID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serve(http.MethodGet, "/api/v1/subscriptions/"+subscriptionID, "")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *SubscriptionHandlerTestSuite) TestListSubscriptions_PassesPagination() {
	token := "opaque-cursor"
	page := &dto.ListSubscriptionsResponse{
		Subscriptions: []dto.SubscriptionResponse{},
		NextToken:     nil,
	}
	suite.mockSubscriptionSvc.On("ListSubscriptions", mock.Anything, suite.userID,
		mock.MatchedBy(func(p dto.ListSubscriptionsParams) bool {
			return p.Limit == 5 && p.NextToken != nil && *p.NextToken == token
		})).Return(page, nil).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/subscriptions?limit=5&nextToken=%s", token), "")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockSubscriptionSvc.AssertExpectations(suite.T())
}

func (suite *SubscriptionHandlerTestSuite) TestUpcomingRenewals_ComputesDaysUntil() {
	soon := suite.storedSubscription("Renews tonight")
	soon.NextBillingDate = time.Now().UTC().Add(6 * time.Hour)
	later := suite.storedSubscription("Renews midweek")
	later.NextBillingDate = time.Now().UTC().Add(73 * time.Hour)

	suite.mockSubscriptionSvc.On("ListUpcomingRenewals", mock.Anything, suite.userID, 7).
		Return([]domain.Subscription{*soon, *later}, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/subscriptions/upcoming", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.UpcomingRenewalsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Renewals, 2)
	suite.Equal(0, resp.Renewals[0].DaysUntilRenewal)
	suite.Equal(3, resp.Renewals[1].DaysUntilRenewal)
}

func (suite *SubscriptionHandlerTestSuite) TestUpcomingRenewals_RejectsOversizedWindow() {
	w := suite.serve(http.MethodGet, "/api/v1/subscriptions/upcoming?withinDays=365", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSubscriptionSvc.AssertNotCalled(suite.T(), "ListUpcomingRenewals")
}

func (suite *SubscriptionHandlerTestSuite) TestSpendingSummary_PassesCurrency() {
	summary := &domain.SpendingSummary{
		CurrencyCode: "EUR",
		MonthlyTotal: decimal.NewFromFloat(27.48),
		YearlyTotal:  decimal.NewFromFloat(329.76),
		Items:        []domain.SubscriptionCost{},
		Categories:   []domain.CategoryTotal{},
		GeneratedAt:  time.Now().UTC(),
	}
	suite.mockReportingService.On("GetSpendingSummary", mock.Anything, suite.userID, "EUR").
		Return(summary, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/subscriptions/summary?currency=EUR", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SpendingSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("EUR", resp.CurrencyCode)
	suite.True(resp.MonthlyTotal.Equal(decimal.NewFromFloat(27.48)))
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *SubscriptionHandlerTestSuite) TestSpendingSummary_DefaultsToPreferredCurrency() {
	summary := &domain.SpendingSummary{
		CurrencyCode: "USD",
		MonthlyTotal: decimal.Zero,
		YearlyTotal:  decimal.Zero,
		GeneratedAt:  time.Now().UTC(),
	}
	// An absent currency parameter reaches the service as an empty string; the
	// service resolves the user's preference from there.
	suite.mockReportingService.On("GetSpendingSummary", mock.Anything, suite.userID, "").
		Return(summary, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/subscriptions/summary", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *SubscriptionHandlerTestSuite) TestUpdateSubscription_Success() {
	sub := suite.storedSubscription("Netflix")
	sub.Name = "Netflix Premium"
	suite.mockSubscriptionSvc.On("UpdateSubscription", mock.Anything, suite.userID, sub.SubscriptionID,
		mock.MatchedBy(func(req dto.UpdateSubscriptionRequest) bool {
			return req.Name != nil && *req.Name == "Netflix Premium" && req.Amount == nil
		})).Return(sub, nil).Once()

	w := suite.serve(http.MethodPut, "/api/v1/subscriptions/"+sub.SubscriptionID, `{"name":"Netflix Premium"}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SubscriptionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Netflix Premium", resp.Name)
}

func (suite *SubscriptionHandlerTestSuite) TestDeleteSubscription_Success() {
	subscriptionID := uuid.NewString()
	suite.mockSubscriptionSvc.On("DeleteSubscription", mock.Anything, suite.userID, subscriptionID).
		Return(nil).Once()

	w := suite.serve(http.MethodDelete, "/api/v1/subscriptions/"+subscriptionID, "")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockSubscriptionSvc.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestSubscriptionHandler(t *testing.T) {
	suite.Run(t, new(SubscriptionHandlerTestSuite))
}
