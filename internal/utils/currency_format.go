package utils

import "github.com/shopspring/decimal"

// RoundToDecimalPlaces rounds an amount half-up to the given number of decimal
// places. Going through decimal avoids float artifacts at the rounding boundary,
// so 10.005 rounds to 10.01 rather than 10.00.
func RoundToDecimalPlaces(amount float64, places int) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(int32(places)).Float64()
	return rounded
}
