package dto

import (
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// CurrencyResponse defines the display metadata returned for a currency.
type CurrencyResponse struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Flag          string `json:"flag"`
	DecimalPlaces int    `json:"decimalPlaces"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(curr domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		Code:          curr.Code,
		Name:          curr.Name,
		Symbol:        curr.Symbol,
		Flag:          curr.Flag,
		DecimalPlaces: curr.DecimalPlaces,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(curr)
	}
	return res
}
