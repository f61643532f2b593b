package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/providers"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/platform/config"
)

const currencyListCacheKey = "currencies:list"

// currencyTable holds display metadata for the currencies the app ships with.
// Codes not listed here fall back to a generic entry; see GetCurrency.
var currencyTable = map[string]domain.Currency{
	"USD": {Code: "USD", Name: "US Dollar", Symbol: "$", Flag: "🇺🇸", DecimalPlaces: 2},
	"EUR": {Code: "EUR", Name: "Euro", Symbol: "€", Flag: "🇪🇺", DecimalPlaces: 2},
	"GBP": {Code: "GBP", Name: "British Pound", Symbol: "£", Flag: "🇬🇧", DecimalPlaces: 2},
	"JPY": {Code: "JPY", Name: "Japanese Yen", Symbol: "¥", Flag: "🇯🇵", DecimalPlaces: 0},
	"LKR": {Code: "LKR", Name: "Sri Lankan Rupee", Symbol: "Rs", Flag: "🇱🇰", DecimalPlaces: 2},
	"AUD": {Code: "AUD", Name: "Australian Dollar", Symbol: "A$", Flag: "🇦🇺", DecimalPlaces: 2},
	"CAD": {Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", Flag: "🇨🇦", DecimalPlaces: 2},
	"CHF": {Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", Flag: "🇨🇭", DecimalPlaces: 2},
	"CNY": {Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", Flag: "🇨🇳", DecimalPlaces: 2},
	"INR": {Code: "INR", Name: "Indian Rupee", Symbol: "₹", Flag: "🇮🇳", DecimalPlaces: 2},
	"KRW": {Code: "KRW", Name: "South Korean Won", Symbol: "₩", Flag: "🇰🇷", DecimalPlaces: 0},
	"VND": {Code: "VND", Name: "Vietnamese Dong", Symbol: "₫", Flag: "🇻🇳", DecimalPlaces: 0},
	"NZD": {Code: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$", Flag: "🇳🇿", DecimalPlaces: 2},
	"SGD": {Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", Flag: "🇸🇬", DecimalPlaces: 2},
	"MYR": {Code: "MYR", Name: "Malaysian Ringgit", Symbol: "RM", Flag: "🇲🇾", DecimalPlaces: 2},
	"SEK": {Code: "SEK", Name: "Swedish Krona", Symbol: "kr", Flag: "🇸🇪", DecimalPlaces: 2},
	"NOK": {Code: "NOK", Name: "Norwegian Krone", Symbol: "kr", Flag: "🇳🇴", DecimalPlaces: 2},
	"HKD": {Code: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$", Flag: "🇭🇰", DecimalPlaces: 2},
	"THB": {Code: "THB", Name: "Thai Baht", Symbol: "฿", Flag: "🇹🇭", DecimalPlaces: 2},
	"BRL": {Code: "BRL", Name: "Brazilian Real", Symbol: "R$", Flag: "🇧🇷", DecimalPlaces: 2},
	"ZAR": {Code: "ZAR", Name: "South African Rand", Symbol: "R", Flag: "🇿🇦", DecimalPlaces: 2},
	"AED": {Code: "AED", Name: "UAE Dirham", Symbol: "د.إ", Flag: "🇦🇪", DecimalPlaces: 2},
}

// currencyService serves currency display metadata from the built-in table,
// enriched with the rate provider's supported-currency list.
type currencyService struct {
	fetcher providers.RateSource
	cache   providers.RateCache
	listTTL time.Duration
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(cfg *config.Config, fetcher providers.RateSource, cache providers.RateCache) portssvc.CurrencySvcFacade {
	return &currencyService{
		fetcher: fetcher,
		cache:   cache,
		listTTL: cfg.CurrencyListTTL,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// GetCurrency returns display metadata for code. Unknown codes get the code
// itself as symbol, a placeholder flag and 2 decimal places.
func (s *currencyService) GetCurrency(code string) domain.Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if currency, ok := currencyTable[code]; ok {
		return currency
	}
	return domain.Currency{
		Code:          code,
		Name:          code,
		Symbol:        code,
		Flag:          "🏳️",
		DecimalPlaces: 2,
	}
}

// DecimalPlaces returns the minor unit digits for code.
func (s *currencyService) DecimalPlaces(code string) int {
	return s.GetCurrency(code).DecimalPlaces
}

// ListCurrencies returns the provider's supported currencies merged with local
// display metadata, cached for the configured TTL. When the provider is
// unreachable the built-in table is returned instead.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if data, err := s.cache.Get(ctx, currencyListCacheKey); err != nil {
		logger.Warn("Currency list cache read failed", "error", err)
	} else if data != nil {
		var cached []domain.Currency
		unmarshalErr := json.Unmarshal(data, &cached)
		if unmarshalErr == nil {
			return cached, nil
		}
		logger.Warn("Dropping undecodable currency list cache entry", "error", unmarshalErr)
	}

	codes, err := s.fetcher.FetchCurrencies(ctx)
	if err != nil {
		logger.Warn("Falling back to built-in currency table", "error", err)
		return s.builtinCurrencies(), nil
	}

	currencies := make([]domain.Currency, 0, len(codes))
	for code, name := range codes {
		currency := s.GetCurrency(code)
		if name != "" {
			currency.Name = name
		}
		currencies = append(currencies, currency)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Code < currencies[j].Code })

	if data, marshalErr := json.Marshal(currencies); marshalErr == nil {
		if cacheErr := s.cache.Set(ctx, currencyListCacheKey, data, s.listTTL); cacheErr != nil {
			logger.Warn("Failed to cache currency list", "error", cacheErr)
		}
	}

	return currencies, nil
}

// builtinCurrencies returns the local table sorted by code.
func (s *currencyService) builtinCurrencies() []domain.Currency {
	currencies := make([]domain.Currency, 0, len(currencyTable))
	for _, currency := range currencyTable {
		currencies = append(currencies, currency)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Code < currencies[j].Code })
	return currencies
}
