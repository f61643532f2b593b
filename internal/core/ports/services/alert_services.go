package services

import (
	"context"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
)

// AlertReaderSvc defines read operations for rate alerts
type AlertReaderSvc interface {
	// ListAlerts returns every alert belonging to a user, fired ones included.
	ListAlerts(ctx context.Context, userID string) ([]domain.RateAlert, error)
}

// AlertWriterSvc defines write operations for rate alerts
type AlertWriterSvc interface {
	// CreateAlert stores a new active alert for the user.
	CreateAlert(ctx context.Context, userID string, req dto.CreateAlertRequest) (*domain.RateAlert, error)

	// DeleteAlert removes an alert owned by the user.
	DeleteAlert(ctx context.Context, userID string, alertID string) error
}

// AlertEvaluatorSvc checks alerts against fresh rate data
type AlertEvaluatorSvc interface {
	// EvaluateAlerts fires and deactivates every active alert whose condition
	// the snapshot satisfies, returning the alerts that fired.
	EvaluateAlerts(ctx context.Context, snapshot *domain.RateSnapshot) []domain.RateAlert
}

// AlertSvcFacade combines all alert-related service interfaces
type AlertSvcFacade interface {
	AlertReaderSvc
	AlertWriterSvc
	AlertEvaluatorSvc
}
