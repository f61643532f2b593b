package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/providers"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/platform/config"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/utils"
)

const (
	latestRatesKeyPrefix    = "rates:latest:"
	pairRateKeyPrefix       = "rates:pair:"
	historicalRateKeyPrefix = "rates:historical:"
	timeSeriesKeyPrefix     = "rates:timeseries:"

	// identityDecimalPlaces is the rounding applied whenever an amount is
	// returned unconverted (same-currency shortcut or rate lookup failure).
	identityDecimalPlaces = 2

	rateDateLayout = "2006-01-02"
)

// rateService resolves exchange rates cache-aside over a remote rate source.
// The snapshot and history primitives surface fetch failures to their callers;
// the conversion wrappers swallow every failure and return the input amount
// unconverted so a rate outage never reaches the end user.
type rateService struct {
	fetcher     providers.RateSource
	cache       providers.RateCache
	currencySvc portssvc.CurrencySvcFacade
	alerts      portssvc.AlertEvaluatorSvc

	latestTTL     time.Duration
	pairTTL       time.Duration
	historicalTTL time.Duration
	seriesTTL     time.Duration

	now func() time.Time
}

// RateServiceOption is a functional option for configuring the rate service
type RateServiceOption func(*rateService)

// WithAlertEvaluator wires the evaluator that runs after each fresh snapshot fetch
func WithAlertEvaluator(evaluator portssvc.AlertEvaluatorSvc) RateServiceOption {
	return func(s *rateService) {
		s.alerts = evaluator
	}
}

// WithRateClock overrides the time source, letting tests control snapshot
// timestamps and TTL expiry.
func WithRateClock(now func() time.Time) RateServiceOption {
	return func(s *rateService) {
		s.now = now
	}
}

// NewRateService creates a new rate service with the provided options.
func NewRateService(cfg *config.Config, fetcher providers.RateSource, cache providers.RateCache, currencySvc portssvc.CurrencySvcFacade, options ...RateServiceOption) portssvc.RateSvcFacade {
	svc := &rateService{
		fetcher:       fetcher,
		cache:         cache,
		currencySvc:   currencySvc,
		latestTTL:     cfg.LatestRatesTTL,
		pairTTL:       cfg.PairRateTTL,
		historicalTTL: cfg.HistoricalRateTTL,
		seriesTTL:     cfg.TimeSeriesTTL,
		now:           time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.RateSvcFacade = (*rateService)(nil)

// GetLatestRates returns the current rate table for base, narrowed to symbols
// when given. Fresh cache entries are returned as-is; otherwise one fetch is
// issued, the new snapshot overwrites the cache entry whole, and active alerts
// are evaluated against it before it is returned.
func (s *rateService) GetLatestRates(ctx context.Context, base string, symbols []string) (*domain.RateSnapshot, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	base = normalizeCode(base)
	symbols = normalizeCodes(symbols)
	key := latestRatesKey(base, symbols)

	if snapshot := s.cachedSnapshot(ctx, key); snapshot != nil {
		return snapshot, nil
	}

	fetched, err := s.fetcher.FetchLatest(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("latest rates for %s: %w", base, err)
	}

	snapshot := &domain.RateSnapshot{
		Base:      base,
		Rates:     narrowRates(fetched.Rates, symbols),
		Timestamp: s.now(),
	}

	if data, marshalErr := json.Marshal(snapshot); marshalErr == nil {
		if cacheErr := s.cache.Set(ctx, key, data, s.latestTTL); cacheErr != nil {
			logger.Warn("Failed to cache rate snapshot", "key", key, "error", cacheErr)
		}
	}

	if s.alerts != nil {
		s.alerts.EvaluateAlerts(ctx, snapshot)
	}

	return snapshot, nil
}

// ConvertAmount converts amount from one currency to another. The result of a
// successful conversion is rounded to the target currency's decimal places;
// the same-currency shortcut and every failure path return the amount rounded
// to 2 decimals instead. Rate resolution failures are logged and swallowed, so
// a rate outage degrades to an unconverted figure rather than an error.
func (s *rateService) ConvertAmount(ctx context.Context, amount float64, from, to string, rate *float64) float64 {
	from = normalizeCode(from)
	to = normalizeCode(to)

	if from == to {
		return utils.RoundToDecimalPlaces(amount, identityDecimalPlaces)
	}

	if rate == nil {
		resolved, err := s.resolveRate(ctx, from, to)
		if err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Conversion falling back to unconverted amount",
				"from", from, "to", to, "error", err)
			return utils.RoundToDecimalPlaces(amount, identityDecimalPlaces)
		}
		rate = &resolved
	}

	return utils.RoundToDecimalPlaces(amount*(*rate), s.targetDecimalPlaces(to))
}

// BatchConvert converts every amount into to, resolving the rate once for the
// whole batch. When the rate cannot be resolved each element independently
// falls back to its own identity rounding.
func (s *rateService) BatchConvert(ctx context.Context, amounts []float64, from, to string) []float64 {
	from = normalizeCode(from)
	to = normalizeCode(to)

	results := make([]float64, len(amounts))
	if len(amounts) == 0 {
		return results
	}

	if from == to {
		for i, amount := range amounts {
			results[i] = utils.RoundToDecimalPlaces(amount, identityDecimalPlaces)
		}
		return results
	}

	rate, err := s.resolveRate(ctx, from, to)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Batch conversion falling back to unconverted amounts",
			"from", from, "to", to, "error", err)
		for i, amount := range amounts {
			results[i] = utils.RoundToDecimalPlaces(amount, identityDecimalPlaces)
		}
		return results
	}

	decimalPlaces := s.targetDecimalPlaces(to)
	for i, amount := range amounts {
		results[i] = utils.RoundToDecimalPlaces(amount*rate, decimalPlaces)
	}
	return results
}

// GetRate returns the current rate for from→to, or nil when it cannot be
// resolved. Identical currencies resolve to 1 without touching the cache or
// the fetcher. Unlike ConvertAmount there is no identity fallback: a nil
// result tells the caller the rate is genuinely unknown.
func (s *rateService) GetRate(ctx context.Context, from, to string) *float64 {
	from = normalizeCode(from)
	to = normalizeCode(to)

	if from == to {
		rate := 1.0
		return &rate
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	key := pairRateKey(from, to)

	if data, err := s.cache.Get(ctx, key); err != nil {
		logger.Warn("Pair rate cache read failed", "key", key, "error", err)
	} else if data != nil {
		var cached float64
		unmarshalErr := json.Unmarshal(data, &cached)
		if unmarshalErr == nil {
			return &cached
		}
		logger.Warn("Dropping undecodable pair rate", "key", key, "error", unmarshalErr)
	}

	rate, err := s.resolveRate(ctx, from, to)
	if err != nil {
		logger.Warn("Pair rate unavailable", "from", from, "to", to, "error", err)
		return nil
	}

	if data, marshalErr := json.Marshal(rate); marshalErr == nil {
		if cacheErr := s.cache.Set(ctx, key, data, s.pairTTL); cacheErr != nil {
			logger.Warn("Failed to cache pair rate", "key", key, "error", cacheErr)
		}
	}

	return &rate
}

// GetHistoricalRates walks each day of [startDate, endDate] in order, serving
// each from its per-day cache entry or one fetch. Days whose fetch fails are
// left out of the result, not zero-filled. The walk stays sequential to avoid
// hammering the rate-limited remote API.
func (s *rateService) GetHistoricalRates(ctx context.Context, from, to string, startDate, endDate string) ([]domain.HistoricalRate, error) {
	from = normalizeCode(from)
	to = normalizeCode(to)

	start, err := time.ParseInLocation(rateDateLayout, startDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %q", apperrors.ErrValidation, startDate)
	}
	end, err := time.ParseInLocation(rateDateLayout, endDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %q", apperrors.ErrValidation, endDate)
	}

	// A reversed range yields an empty result, not an error.
	points := make([]domain.HistoricalRate, 0)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		rate, ok := s.historicalRateForDay(ctx, from, to, day)
		if !ok {
			continue
		}
		points = append(points, domain.HistoricalRate{Date: day.Format(rateDateLayout), Rate: rate})
	}
	return points, nil
}

// GetTimeSeries returns the pair's daily rates across [startDate, endDate] as
// one series, cached whole under its own key. A range that resolves no days at
// all is reported as an error rather than an empty series.
func (s *rateService) GetTimeSeries(ctx context.Context, from, to string, startDate, endDate string) (*domain.RateTimeSeries, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	from = normalizeCode(from)
	to = normalizeCode(to)

	// ISO dates compare lexically.
	if startDate > endDate {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", apperrors.ErrValidation, endDate, startDate)
	}

	key := timeSeriesKey(from, to, startDate, endDate)
	if data, err := s.cache.Get(ctx, key); err != nil {
		logger.Warn("Time series cache read failed", "key", key, "error", err)
	} else if data != nil {
		var cached domain.RateTimeSeries
		unmarshalErr := json.Unmarshal(data, &cached)
		if unmarshalErr == nil {
			return &cached, nil
		}
		logger.Warn("Dropping undecodable time series", "key", key, "error", unmarshalErr)
	}

	points, err := s.GetHistoricalRates(ctx, from, to, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no rates for %s/%s between %s and %s", apperrors.ErrRateFetch, from, to, startDate, endDate)
	}

	series := &domain.RateTimeSeries{
		From:      from,
		To:        to,
		StartDate: startDate,
		EndDate:   endDate,
		Points:    points,
	}

	if data, marshalErr := json.Marshal(series); marshalErr == nil {
		if cacheErr := s.cache.Set(ctx, key, data, s.seriesTTL); cacheErr != nil {
			logger.Warn("Failed to cache time series", "key", key, "error", cacheErr)
		}
	}

	return series, nil
}

// RefreshRates drops the full-table snapshot for base and fetches a fresh one.
// This is the only active invalidation; narrowed snapshot entries and pair
// entries expire on their own TTLs.
func (s *rateService) RefreshRates(ctx context.Context, base string) (*domain.RateSnapshot, error) {
	base = normalizeCode(base)
	if err := s.cache.Remove(ctx, latestRatesKey(base, nil)); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to evict rate snapshot", "base", base, "error", err)
	}
	return s.GetLatestRates(ctx, base, nil)
}

// resolveRate reads rates[to] from the latest snapshot for from. The lookup
// shares GetLatestRates' snapshot cache, so repeated conversions within the
// TTL window cost no extra fetches.
func (s *rateService) resolveRate(ctx context.Context, from, to string) (float64, error) {
	snapshot, err := s.GetLatestRates(ctx, from, nil)
	if err != nil {
		return 0, err
	}
	rate, ok := snapshot.Rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no rate for %s", apperrors.ErrRateNotFound, from, to)
	}
	return rate, nil
}

// historicalRateForDay resolves one day's closing rate through the per-day
// cache. A false return means the day could not be resolved; the caller skips
// it.
func (s *rateService) historicalRateForDay(ctx context.Context, from, to string, day time.Time) (float64, bool) {
	logger := middleware.GetLoggerFromCtx(ctx)
	date := day.Format(rateDateLayout)
	key := historicalRateKey(from, to, date)

	if data, err := s.cache.Get(ctx, key); err != nil {
		logger.Warn("Historical rate cache read failed", "key", key, "error", err)
	} else if data != nil {
		var cached float64
		if json.Unmarshal(data, &cached) == nil {
			return cached, true
		}
		logger.Warn("Dropping undecodable historical rate", "key", key)
	}

	snapshot, err := s.fetcher.FetchHistorical(ctx, from, day)
	if err != nil {
		logger.Warn("Skipping unfetchable day in rate history", "date", date, "error", err)
		return 0, false
	}

	rate, ok := snapshot.Rates[to]
	if !ok {
		logger.Warn("Skipping day with no rate for target currency", "date", date, "from", from, "to", to)
		return 0, false
	}

	if data, marshalErr := json.Marshal(rate); marshalErr == nil {
		if cacheErr := s.cache.Set(ctx, key, data, s.historicalTTL); cacheErr != nil {
			logger.Warn("Failed to cache historical rate", "key", key, "error", cacheErr)
		}
	}

	return rate, true
}

// targetDecimalPlaces returns the rounding for a successfully converted amount.
func (s *rateService) targetDecimalPlaces(code string) int {
	if s.currencySvc == nil {
		return identityDecimalPlaces
	}
	return s.currencySvc.DecimalPlaces(code)
}

// cachedSnapshot returns the decoded snapshot under key, or nil when the entry
// is missing, expired or undecodable.
func (s *rateService) cachedSnapshot(ctx context.Context, key string) *domain.RateSnapshot {
	logger := middleware.GetLoggerFromCtx(ctx)

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Rate cache read failed", "key", key, "error", err)
		return nil
	}
	if data == nil {
		return nil
	}

	var snapshot domain.RateSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logger.Warn("Dropping undecodable rate snapshot", "key", key, "error", err)
		return nil
	}
	return &snapshot
}

// latestRatesKey builds the snapshot cache key for base, extended with the
// sorted symbols restriction so differently narrowed snapshots never collide.
func latestRatesKey(base string, symbols []string) string {
	if len(symbols) == 0 {
		return latestRatesKeyPrefix + base
	}
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)
	return latestRatesKeyPrefix + base + ":" + strings.Join(sorted, ",")
}

func pairRateKey(from, to string) string {
	return pairRateKeyPrefix + from + ":" + to
}

func historicalRateKey(from, to, date string) string {
	return historicalRateKeyPrefix + from + ":" + to + ":" + date
}

func timeSeriesKey(from, to, startDate, endDate string) string {
	return timeSeriesKeyPrefix + from + ":" + to + ":" + startDate + ":" + endDate
}

// narrowRates restricts rates to the requested symbols; an empty symbols slice
// keeps the full table. Requested symbols absent from the table stay absent.
func narrowRates(rates map[string]float64, symbols []string) map[string]float64 {
	if len(symbols) == 0 {
		return rates
	}
	narrowed := make(map[string]float64, len(symbols))
	for _, code := range symbols {
		if rate, ok := rates[code]; ok {
			narrowed[code] = rate
		}
	}
	return narrowed
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func normalizeCodes(codes []string) []string {
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		if upper := normalizeCode(code); upper != "" {
			normalized = append(normalized, upper)
		}
	}
	return normalized
}
