package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/providers"
)

// Client talks to the exchangerate-api.com v6 endpoints. It is the only
// component that knows the provider's URL scheme and payload shape; everything
// upstream works with domain.RateSnapshot.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure implementation matches interface
var _ providers.RateSource = (*Client)(nil)

// apiResponse covers the fields shared by the latest, history and codes payloads.
// See: https://www.exchangerate-api.com/docs/standard-requests
type apiResponse struct {
	Result             string             `json:"result"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	BaseCode           string             `json:"base_code"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	SupportedCodes     [][]string         `json:"supported_codes"`
	ErrorType          string             `json:"error-type,omitempty"`
}

// NewClient creates a provider client. baseURL should look like
// https://v6.exchangerate-api.com/v6 without a trailing slash.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchLatest retrieves the full current rate table for the given base currency.
func (c *Client) FetchLatest(ctx context.Context, base string) (*domain.RateSnapshot, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, base)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().UTC()
	if resp.TimeLastUpdateUnix > 0 {
		timestamp = time.Unix(resp.TimeLastUpdateUnix, 0).UTC()
	}

	return &domain.RateSnapshot{
		Base:      base,
		Rates:     resp.ConversionRates,
		Timestamp: timestamp,
	}, nil
}

// FetchHistorical retrieves the closing rates for the given base currency on a past day.
func (c *Client) FetchHistorical(ctx context.Context, base string, date time.Time) (*domain.RateSnapshot, error) {
	d := date.UTC()
	url := fmt.Sprintf("%s/%s/history/%s/%d/%d/%d", c.baseURL, c.apiKey, base, d.Year(), int(d.Month()), d.Day())

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	return &domain.RateSnapshot{
		Base:      base,
		Rates:     resp.ConversionRates,
		Timestamp: time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
	}, nil
}

// FetchCurrencies retrieves the currency codes the provider supports, with display names.
func (c *Client) FetchCurrencies(ctx context.Context) (map[string]string, error) {
	url := fmt.Sprintf("%s/%s/codes", c.baseURL, c.apiKey)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	codes := make(map[string]string, len(resp.SupportedCodes))
	for _, pair := range resp.SupportedCodes {
		if len(pair) == 2 {
			codes[pair[0]] = pair[1]
		}
	}
	return codes, nil
}

// get performs the request and maps every failure mode onto ErrRateFetch so
// callers can treat provider trouble uniformly.
func (c *Client) get(ctx context.Context, url string) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", apperrors.ErrRateFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRateFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("Rate provider returned non-OK status", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: provider returned status %d: %s", apperrors.ErrRateFetch, resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", apperrors.ErrRateFetch, err)
	}

	if apiResp.Result != "success" {
		return nil, fmt.Errorf("%w: provider returned result=%s error-type=%s", apperrors.ErrRateFetch, apiResp.Result, apiResp.ErrorType)
	}

	return &apiResp, nil
}
