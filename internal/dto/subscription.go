package dto

import (
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSubscriptionRequest defines the data needed to create a subscription.
type CreateSubscriptionRequest struct {
	Name            string          `json:"name" binding:"required,max=100"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode    string          `json:"currencyCode" binding:"required,currencycode"`
	BillingCycle    string          `json:"billingCycle" binding:"required,billingcycle"`
	NextBillingDate time.Time       `json:"nextBillingDate" binding:"required"`
	Category        string          `json:"category"` // Optional, e.g. "Entertainment"
	Notes           string          `json:"notes"`    // Optional
}

// UpdateSubscriptionRequest defines the data allowed for updating a subscription.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateSubscriptionRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=100"`
	Amount          *decimal.Decimal `json:"amount"`
	CurrencyCode    *string          `json:"currencyCode" binding:"omitempty,currencycode"`
	BillingCycle    *string          `json:"billingCycle" binding:"omitempty,billingcycle"`
	NextBillingDate *time.Time       `json:"nextBillingDate"`
	Category        *string          `json:"category"`
	Notes           *string          `json:"notes"`
	IsActive        *bool            `json:"isActive"` // Pause/resume without deleting
}

// SubscriptionResponse defines the data returned for a subscription.
type SubscriptionResponse struct {
	SubscriptionID  string          `json:"subscriptionID"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	BillingCycle    string          `json:"billingCycle"`
	NextBillingDate time.Time       `json:"nextBillingDate"`
	Category        string          `json:"category"`
	Notes           string          `json:"notes"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
}

// ToSubscriptionResponse converts a domain.Subscription to SubscriptionResponse DTO
func ToSubscriptionResponse(sub *domain.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID:  sub.SubscriptionID,
		Name:            sub.Name,
		Amount:          sub.Amount,
		CurrencyCode:    sub.CurrencyCode,
		BillingCycle:    string(sub.BillingCycle),
		NextBillingDate: sub.NextBillingDate,
		Category:        sub.Category,
		Notes:           sub.Notes,
		IsActive:        sub.IsActive,
		CreatedAt:       sub.CreatedAt,
		LastUpdatedAt:   sub.LastUpdatedAt,
	}
}

// ToListSubscriptionResponse converts a slice of domain.Subscription to a slice of SubscriptionResponse DTOs
func ToListSubscriptionResponse(subs []domain.Subscription) []SubscriptionResponse {
	res := make([]SubscriptionResponse, len(subs))
	for i, sub := range subs {
		res[i] = ToSubscriptionResponse(&sub)
	}
	return res
}

// ListSubscriptionsParams defines query parameters for listing subscriptions.
type ListSubscriptionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListSubscriptionsResponse wraps a page of subscriptions.
// NextToken is nil when there are no further pages.
type ListSubscriptionsResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	NextToken     *string                `json:"nextToken,omitempty"`
}

// UpcomingRenewalsParams defines query parameters for the renewals lookahead.
type UpcomingRenewalsParams struct {
	WithinDays int `form:"withinDays,default=7" binding:"omitempty,min=1,max=90"`
}

// RenewalResponse pairs a subscription with the days remaining until it bills.
type RenewalResponse struct {
	Subscription     SubscriptionResponse `json:"subscription"`
	DaysUntilRenewal int                  `json:"daysUntilRenewal"`
}

// UpcomingRenewalsResponse wraps the renewals due within the requested window.
type UpcomingRenewalsResponse struct {
	Renewals []RenewalResponse `json:"renewals"`
}
