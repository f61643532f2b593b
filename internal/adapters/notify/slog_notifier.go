package notify

import (
	"context"
	"log/slog"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/providers"
)

// SlogNotifier reports fired alerts to the application log. It stands in for a
// push-notification gateway; swapping in a real one only means implementing
// providers.AlertNotifier somewhere else.
type SlogNotifier struct {
	logger *slog.Logger
}

// Ensure implementation matches interface
var _ providers.AlertNotifier = (*SlogNotifier)(nil)

// NewSlogNotifier creates a notifier that writes to logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

// Notify logs the fired alert with enough context to reconstruct the trigger.
func (n *SlogNotifier) Notify(_ context.Context, alert domain.RateAlert, currentRate float64) error {
	n.logger.Info("Rate alert fired",
		slog.String("alert_id", alert.AlertID),
		slog.String("user_id", alert.UserID),
		slog.String("pair", alert.FromCurrency+"/"+alert.ToCurrency),
		slog.String("condition", string(alert.Condition)),
		slog.Float64("target_rate", alert.TargetRate),
		slog.Float64("current_rate", currentRate),
	)
	return nil
}
