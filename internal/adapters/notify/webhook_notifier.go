package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/providers"
)

// WebhookNotifier POSTs fired alerts to a configured endpoint, typically a
// push-notification relay or a chat integration. The payload is a flat JSON
// object so receivers do not need our domain types.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure implementation matches interface
var _ providers.AlertNotifier = (*WebhookNotifier)(nil)

// webhookPayload is the wire shape delivered to the webhook endpoint.
type webhookPayload struct {
	AlertID      string  `json:"alertId"`
	UserID       string  `json:"userId"`
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	Condition    string  `json:"condition"`
	TargetRate   float64 `json:"targetRate"`
	CurrentRate  float64 `json:"currentRate"`
	FiredAt      string  `json:"firedAt"`
}

// NewWebhookNotifier creates a notifier that delivers alerts to url.
func NewWebhookNotifier(url string, timeout time.Duration, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Notify delivers the fired alert to the webhook endpoint. A delivery failure
// is returned to the caller but the alert is still considered handled; the
// evaluation loop deactivates it either way.
func (n *WebhookNotifier) Notify(ctx context.Context, alert domain.RateAlert, currentRate float64) error {
	payload := webhookPayload{
		AlertID:      alert.AlertID,
		UserID:       alert.UserID,
		FromCurrency: alert.FromCurrency,
		ToCurrency:   alert.ToCurrency,
		Condition:    string(alert.Condition),
		TargetRate:   alert.TargetRate,
		CurrentRate:  currentRate,
		FiredAt:      time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Error("Alert webhook delivery failed", slog.String("alert_id", alert.AlertID), "error", err)
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Error("Alert webhook returned non-success status",
			slog.String("alert_id", alert.AlertID),
			slog.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	n.logger.Info("Rate alert delivered to webhook",
		slog.String("alert_id", alert.AlertID),
		slog.String("pair", alert.FromCurrency+"/"+alert.ToCurrency),
		slog.Float64("current_rate", currentRate),
	)
	return nil
}
