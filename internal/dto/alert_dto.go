package dto

import (
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// CreateAlertRequest defines the data needed to create a rate alert.
type CreateAlertRequest struct {
	FromCurrency string  `json:"fromCurrency" binding:"required,currencycode"`
	ToCurrency   string  `json:"toCurrency" binding:"required,currencycode,nefield=FromCurrency"`
	TargetRate   float64 `json:"targetRate" binding:"required,gt=0"`
	Condition    string  `json:"condition" binding:"required,oneof=above below"`
}

// AlertResponse defines the data returned for a rate alert.
type AlertResponse struct {
	AlertID      string    `json:"alertID"`
	FromCurrency string    `json:"fromCurrency"`
	ToCurrency   string    `json:"toCurrency"`
	TargetRate   float64   `json:"targetRate"`
	Condition    string    `json:"condition"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToAlertResponse converts a domain.RateAlert to AlertResponse DTO
func ToAlertResponse(alert *domain.RateAlert) AlertResponse {
	return AlertResponse{
		AlertID:      alert.AlertID,
		FromCurrency: alert.FromCurrency,
		ToCurrency:   alert.ToCurrency,
		TargetRate:   alert.TargetRate,
		Condition:    string(alert.Condition),
		Active:       alert.Active,
		CreatedAt:    alert.CreatedAt,
	}
}

// ListAlertsResponse wraps the list of a user's rate alerts.
type ListAlertsResponse struct {
	Alerts []AlertResponse `json:"alerts"`
}

// ToListAlertsResponse converts a slice of domain.RateAlert to ListAlertsResponse DTO
func ToListAlertsResponse(alerts []domain.RateAlert) ListAlertsResponse {
	res := make([]AlertResponse, len(alerts))
	for i, alert := range alerts {
		res[i] = ToAlertResponse(&alert)
	}
	return ListAlertsResponse{Alerts: res}
}
