package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionCost is one subscription's contribution to a spending summary.
// MonthlyAmount is the billed amount normalized to a monthly figure, still in
// the billing currency; ConvertedAmount is that figure in the summary currency.
type SubscriptionCost struct {
	SubscriptionID  string          `json:"subscriptionID"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`       // Per billing period
	CurrencyCode    string          `json:"currencyCode"` // Billing currency
	BillingCycle    BillingCycle    `json:"billingCycle"`
	MonthlyAmount   decimal.Decimal `json:"monthlyAmount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
}

// CategoryTotal aggregates converted monthly spend for one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// SpendingSummary rolls a user's active subscriptions up into a single currency.
type SpendingSummary struct {
	CurrencyCode string             `json:"currencyCode"` // Currency all totals are expressed in
	MonthlyTotal decimal.Decimal    `json:"monthlyTotal"`
	YearlyTotal  decimal.Decimal    `json:"yearlyTotal"`
	Items        []SubscriptionCost `json:"items"`
	Categories   []CategoryTotal    `json:"categories"`
	GeneratedAt  time.Time          `json:"generatedAt"`
}
