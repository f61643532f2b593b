package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/adapters/cache"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type CurrencyServiceTestSuite struct {
	suite.Suite
	fetcher *MockRateSource
	clock   *fakeClock
	service portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.fetcher = new(MockRateSource)
	suite.clock = &fakeClock{at: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	memCache := cache.NewMemoryCache(cache.WithCacheClock(suite.clock.Now))
	suite.service = services.NewCurrencyService(testTTLConfig(), suite.fetcher, memCache)
}

// --- GetCurrency ---

func (suite *CurrencyServiceTestSuite) TestGetCurrency_KnownCode() {
	currency := suite.service.GetCurrency("USD")

	suite.Equal("USD", currency.Code)
	suite.Equal("US Dollar", currency.Name)
	suite.Equal("$", currency.Symbol)
	suite.Equal(2, currency.DecimalPlaces)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrency_NormalizesInput() {
	currency := suite.service.GetCurrency(" eur ")

	suite.Equal("EUR", currency.Code)
	suite.Equal("Euro", currency.Name)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrency_UnknownCodeFallsBack() {
	currency := suite.service.GetCurrency("XTS")

	suite.Equal("XTS", currency.Code)
	suite.Equal("XTS", currency.Name)
	suite.Equal("XTS", currency.Symbol)
	suite.Equal(2, currency.DecimalPlaces)
}

func (suite *CurrencyServiceTestSuite) TestDecimalPlaces() {
	suite.Equal(0, suite.service.DecimalPlaces("JPY"))
	suite.Equal(0, suite.service.DecimalPlaces("KRW"))
	suite.Equal(0, suite.service.DecimalPlaces("vnd"))
	suite.Equal(2, suite.service.DecimalPlaces("USD"))
	suite.Equal(2, suite.service.DecimalPlaces("XTS"))
}

// --- ListCurrencies ---

func (suite *CurrencyServiceTestSuite) TestListCurrencies_CachesProviderList() {
	ctx := context.Background()
	suite.fetcher.On("FetchCurrencies", mock.Anything).
		Return(map[string]string{"USD": "US Dollar", "EUR": "Euro", "GBP": "British Pound"}, nil).Once()

	first, err := suite.service.ListCurrencies(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(first, 3)
	suite.Equal("EUR", first[0].Code)
	suite.Equal("GBP", first[1].Code)
	suite.Equal("USD", first[2].Code)

	second, err := suite.service.ListCurrencies(ctx)
	suite.Require().NoError(err)
	suite.Equal(first, second)

	suite.fetcher.AssertNumberOfCalls(suite.T(), "FetchCurrencies", 1)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_ExpiredListRefetches() {
	ctx := context.Background()
	suite.fetcher.On("FetchCurrencies", mock.Anything).
		Return(map[string]string{"USD": "US Dollar"}, nil).Twice()

	_, err := suite.service.ListCurrencies(ctx)
	suite.Require().NoError(err)

	suite.clock.Advance(2 * time.Hour)

	_, err = suite.service.ListCurrencies(ctx)
	suite.Require().NoError(err)

	suite.fetcher.AssertNumberOfCalls(suite.T(), "FetchCurrencies", 2)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_ProviderNameWins() {
	ctx := context.Background()
	suite.fetcher.On("FetchCurrencies", mock.Anything).
		Return(map[string]string{"EUR": "Euro (EMU)", "JPY": ""}, nil).Once()

	currencies, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(currencies, 2)
	suite.Equal("Euro (EMU)", currencies[0].Name)
	suite.Equal("€", currencies[0].Symbol)
	// An empty provider name keeps the local one.
	suite.Equal("Japanese Yen", currencies[1].Name)
	suite.Equal(0, currencies[1].DecimalPlaces)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies_ProviderFailureFallsBack() {
	ctx := context.Background()
	suite.fetcher.On("FetchCurrencies", mock.Anything).Return(nil, fetchFailure()).Once()

	currencies, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	suite.Require().NotEmpty(currencies)
	suite.Equal("AED", currencies[0].Code)
	for i := 1; i < len(currencies); i++ {
		suite.Less(currencies[i-1].Code, currencies[i].Code)
	}
}

// --- Run Suite ---
func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
