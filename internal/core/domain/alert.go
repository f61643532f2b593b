package domain

import "time"

// AlertCondition selects which side of the target rate fires an alert.
type AlertCondition string

const (
	AlertAbove AlertCondition = "above" // Fires when current rate > target
	AlertBelow AlertCondition = "below" // Fires when current rate < target
)

// RateAlert is a user-defined trigger on a currency pair.
// A fired alert is deactivated and stays in the set as a record; it never fires again.
type RateAlert struct {
	AlertID      string         `json:"alertID"` // Primary Key (e.g., UUID)
	UserID       string         `json:"userID"`
	FromCurrency string         `json:"fromCurrency"` // Base of the watched pair
	ToCurrency   string         `json:"toCurrency"`   // Target of the watched pair
	TargetRate   float64        `json:"targetRate"`
	Condition    AlertCondition `json:"condition"`
	Active       bool           `json:"active"`
	CreatedAt    time.Time      `json:"createdAt"`
}
