package domain

// Currency describes a currency for display purposes.
type Currency struct {
	Code          string `json:"code"`          // ISO 4217 code (e.g., "USD")
	Name          string `json:"name"`          // e.g., "US Dollar"
	Symbol        string `json:"symbol"`        // e.g., "$"
	Flag          string `json:"flag"`          // Flag emoji, e.g., "🇺🇸"
	DecimalPlaces int    `json:"decimalPlaces"` // Minor unit digits (0 for JPY, 2 for USD)
}
