package domain

import "time"

// RateSnapshot holds the exchange rates for a single base currency at a point in time.
// Rates maps target currency codes to the multiplier that converts one unit of Base
// into the target currency.
type RateSnapshot struct {
	Base      string             `json:"base"`      // e.g., "USD"
	Rates     map[string]float64 `json:"rates"`     // e.g., {"EUR": 0.92, "LKR": 298.5}
	Timestamp time.Time          `json:"timestamp"` // When the snapshot was taken
}

// HistoricalRate is the closing rate of a currency pair on a single day.
type HistoricalRate struct {
	Date string  `json:"date"` // "YYYY-MM-DD" (UTC)
	Rate float64 `json:"rate"`
}

// RateTimeSeries is an ordered run of daily rates for one currency pair.
type RateTimeSeries struct {
	From      string           `json:"from"`
	To        string           `json:"to"`
	StartDate string           `json:"startDate"` // Inclusive, "YYYY-MM-DD"
	EndDate   string           `json:"endDate"`   // Inclusive, "YYYY-MM-DD"
	Points    []HistoricalRate `json:"points"`    // Oldest first
}
