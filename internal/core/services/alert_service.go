package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/providers"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
)

// alertsCacheKey is the single fixed key the whole alert set lives under.
// The set is always written as one blob, never per-alert.
const alertsCacheKey = "alerts:all"

// alertService manages rate alerts persisted in bulk to the cache and
// evaluates them against freshly fetched snapshots.
type alertService struct {
	cache    providers.RateCache
	notifier providers.AlertNotifier

	// mu serializes read-modify-write cycles on the alert blob within this
	// process; the cache itself only guarantees last-write-wins whole values.
	mu sync.Mutex
}

// NewAlertService creates a new alert service.
func NewAlertService(cache providers.RateCache, notifier providers.AlertNotifier) portssvc.AlertSvcFacade {
	return &alertService{
		cache:    cache,
		notifier: notifier,
	}
}

var _ portssvc.AlertSvcFacade = (*alertService)(nil)

// ListAlerts returns every alert belonging to userID, fired ones included.
func (s *alertService) ListAlerts(ctx context.Context, userID string) ([]domain.RateAlert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts, err := s.loadAlerts(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]domain.RateAlert, 0)
	for _, alert := range alerts {
		if alert.UserID == userID {
			owned = append(owned, alert)
		}
	}
	return owned, nil
}

// CreateAlert stores a new active alert for userID and persists the full set.
func (s *alertService) CreateAlert(ctx context.Context, userID string, req dto.CreateAlertRequest) (*domain.RateAlert, error) {
	if req.TargetRate <= 0 {
		return nil, fmt.Errorf("%w: target rate must be positive", apperrors.ErrValidation)
	}
	from := normalizeCode(req.FromCurrency)
	to := normalizeCode(req.ToCurrency)
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	alert := domain.RateAlert{
		AlertID:      uuid.NewString(),
		UserID:       userID,
		FromCurrency: from,
		ToCurrency:   to,
		TargetRate:   req.TargetRate,
		Condition:    domain.AlertCondition(req.Condition),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	alerts, err := s.loadAlerts(ctx)
	if err != nil {
		return nil, err
	}
	alerts = append(alerts, alert)
	if err := s.saveAlerts(ctx, alerts); err != nil {
		return nil, err
	}

	return &alert, nil
}

// DeleteAlert removes an alert owned by userID. Alerts belonging to another
// user are reported as not found rather than forbidden.
func (s *alertService) DeleteAlert(ctx context.Context, userID string, alertID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts, err := s.loadAlerts(ctx)
	if err != nil {
		return err
	}

	for i, alert := range alerts {
		if alert.AlertID == alertID && alert.UserID == userID {
			alerts = append(alerts[:i], alerts[i+1:]...)
			return s.saveAlerts(ctx, alerts)
		}
	}
	return fmt.Errorf("alert %s: %w", alertID, apperrors.ErrNotFound)
}

// EvaluateAlerts runs every active alert whose FromCurrency matches the
// snapshot base against the snapshot's rates. A triggered alert is notified,
// deactivated and never fires again; the full set is persisted once after the
// pass. Evaluation never fails the snapshot fetch that triggered it, so all
// errors are logged and swallowed here.
func (s *alertService) EvaluateAlerts(ctx context.Context, snapshot *domain.RateSnapshot) []domain.RateAlert {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	alerts, err := s.loadAlerts(ctx)
	if err != nil {
		logger.Warn("Skipping alert evaluation", "error", err)
		return nil
	}

	var fired []domain.RateAlert
	for i := range alerts {
		alert := &alerts[i]
		if !alert.Active || alert.FromCurrency != snapshot.Base {
			continue
		}
		currentRate, ok := snapshot.Rates[alert.ToCurrency]
		if !ok {
			// Target currency absent from this snapshot; the alert stays active.
			continue
		}

		triggered := (alert.Condition == domain.AlertAbove && currentRate > alert.TargetRate) ||
			(alert.Condition == domain.AlertBelow && currentRate < alert.TargetRate)
		if !triggered {
			continue
		}

		if notifyErr := s.notifier.Notify(ctx, *alert, currentRate); notifyErr != nil {
			logger.Warn("Alert notification failed",
				"alert_id", alert.AlertID, "error", notifyErr)
		}
		// Deactivation is unconditional once the condition was met; a delivery
		// failure must not make the alert fire again on the next snapshot.
		alert.Active = false
		fired = append(fired, *alert)
	}

	if len(fired) > 0 {
		if saveErr := s.saveAlerts(ctx, alerts); saveErr != nil {
			logger.Error("Failed to persist alert set after evaluation", "error", saveErr)
		}
	}

	return fired
}

// loadAlerts reads the whole alert set; a missing blob is an empty set.
func (s *alertService) loadAlerts(ctx context.Context) ([]domain.RateAlert, error) {
	data, err := s.cache.Get(ctx, alertsCacheKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	if data == nil {
		return []domain.RateAlert{}, nil
	}

	var alerts []domain.RateAlert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return alerts, nil
}

// saveAlerts writes the whole alert set as one blob that never expires.
func (s *alertService) saveAlerts(ctx context.Context, alerts []domain.RateAlert) error {
	data, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to encode alerts: %w", err)
	}
	if err := s.cache.Set(ctx, alertsCacheKey, data, 0); err != nil {
		return fmt.Errorf("failed to store alerts: %w", err)
	}
	return nil
}
