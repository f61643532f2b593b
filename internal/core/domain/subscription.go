package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingCycle defines how often a subscription renews.
type BillingCycle string

const (
	BillingWeekly    BillingCycle = "WEEKLY"
	BillingMonthly   BillingCycle = "MONTHLY"
	BillingQuarterly BillingCycle = "QUARTERLY"
	BillingYearly    BillingCycle = "YEARLY"
)

// MonthlyFactor returns the multiplier that normalizes one billing period's
// cost to a monthly figure.
func (b BillingCycle) MonthlyFactor() decimal.Decimal {
	switch b {
	case BillingWeekly:
		// 52 weeks / 12 months
		return decimal.NewFromFloat(52.0 / 12.0)
	case BillingQuarterly:
		return decimal.NewFromFloat(1.0 / 3.0)
	case BillingYearly:
		return decimal.NewFromFloat(1.0 / 12.0)
	default:
		return decimal.NewFromInt(1)
	}
}

// Subscription represents a recurring payment tracked by a user.
type Subscription struct {
	SubscriptionID  string          `json:"subscriptionID"` // Primary Key (e.g., UUID)
	UserID          string          `json:"userID"`         // FK -> users.user_id
	Name            string          `json:"name"`           // e.g., "Netflix"
	Amount          decimal.Decimal `json:"amount"`         // Cost per billing period
	CurrencyCode    string          `json:"currencyCode"`   // ISO 4217 code the amount is billed in
	BillingCycle    BillingCycle    `json:"billingCycle"`
	NextBillingDate time.Time       `json:"nextBillingDate"`
	Category        string          `json:"category"` // e.g., "Entertainment"
	Notes           string          `json:"notes"`
	IsActive        bool            `json:"isActive"` // Paused subscriptions stay stored but are excluded from summaries
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
