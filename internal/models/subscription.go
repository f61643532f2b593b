package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Subscription represents a row in the subscriptions table.
type Subscription struct {
	SubscriptionID  string          `db:"subscription_id"`
	UserID          string          `db:"user_id"`
	Name            string          `db:"name"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	BillingCycle    string          `db:"billing_cycle"`
	NextBillingDate time.Time       `db:"next_billing_date"`
	Category        string          `db:"category"`
	Notes           string          `db:"notes"`
	IsActive        bool            `db:"is_active"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
