package dto

import (
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
)

// LatestRatesParams defines query parameters for fetching the latest rates.
type LatestRatesParams struct {
	Base    string `form:"base" binding:"omitempty,currencycode"`
	Symbols string `form:"symbols"` // Optional comma-separated list, e.g. "EUR,GBP,LKR"
}

// LatestRatesResponse defines the structure for a rate table response.
type LatestRatesResponse struct {
	Base      string             `json:"base"`
	Timestamp time.Time          `json:"timestamp"`
	Rates     map[string]float64 `json:"rates"`
}

// ToLatestRatesResponse converts a domain.RateSnapshot to LatestRatesResponse DTO
func ToLatestRatesResponse(snap *domain.RateSnapshot) LatestRatesResponse {
	return LatestRatesResponse{
		Base:      snap.Base,
		Timestamp: snap.Timestamp,
		Rates:     snap.Rates,
	}
}

// PairRateParams defines query parameters for a single pair rate lookup.
type PairRateParams struct {
	From string `form:"from" binding:"required,currencycode"`
	To   string `form:"to" binding:"required,currencycode"`
}

// PairRateResponse defines the structure for a single pair rate response.
type PairRateResponse struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}

// ConvertRequest defines the data needed to convert a single amount.
type ConvertRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	From   string  `json:"from" binding:"required,currencycode"`
	To     string  `json:"to" binding:"required,currencycode"`
}

// ConvertResponse defines the structure for a single conversion response.
type ConvertResponse struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Amount    float64 `json:"amount"`
	Converted float64 `json:"converted"`
}

// BatchConvertRequest defines the data needed to convert several amounts of one
// source currency into a target currency.
type BatchConvertRequest struct {
	Amounts []float64 `json:"amounts" binding:"required,min=1"`
	From    string    `json:"from" binding:"required,currencycode"`
	To      string    `json:"to" binding:"required,currencycode"`
}

// BatchConvertResponse defines the structure for a batch conversion response.
// Results keep the order of the request amounts.
type BatchConvertResponse struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	Amounts []float64 `json:"amounts"`
	Results []float64 `json:"results"`
}

// RateRangeParams defines query parameters for date-range rate lookups.
type RateRangeParams struct {
	From  string `form:"from" binding:"required,currencycode"`
	To    string `form:"to" binding:"required,currencycode"`
	Start string `form:"start" binding:"required,datetime=2006-01-02"`
	End   string `form:"end" binding:"required,datetime=2006-01-02"`
}

// RatePointResponse is one dated rate in a history or time series response.
type RatePointResponse struct {
	Date string  `json:"date"` // "YYYY-MM-DD"
	Rate float64 `json:"rate"`
}

// HistoricalRatesResponse defines the structure for a daily rate history response.
type HistoricalRatesResponse struct {
	From   string              `json:"from"`
	To     string              `json:"to"`
	Points []RatePointResponse `json:"points"` // Oldest first; days with no data are omitted
}

// ToHistoricalRatesResponse converts domain history points to a HistoricalRatesResponse DTO
func ToHistoricalRatesResponse(from, to string, points []domain.HistoricalRate) HistoricalRatesResponse {
	resp := HistoricalRatesResponse{
		From:   from,
		To:     to,
		Points: make([]RatePointResponse, len(points)),
	}
	for i, p := range points {
		resp.Points[i] = RatePointResponse{Date: p.Date, Rate: p.Rate}
	}
	return resp
}

// TimeSeriesResponse defines the structure for a time series response.
type TimeSeriesResponse struct {
	From      string              `json:"from"`
	To        string              `json:"to"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Points    []RatePointResponse `json:"points"` // Oldest first
}

// ToTimeSeriesResponse converts a domain.RateTimeSeries to TimeSeriesResponse DTO
func ToTimeSeriesResponse(series *domain.RateTimeSeries) TimeSeriesResponse {
	points := make([]RatePointResponse, len(series.Points))
	for i, p := range series.Points {
		points[i] = RatePointResponse{Date: p.Date, Rate: p.Rate}
	}
	return TimeSeriesResponse{
		From:      series.From,
		To:        series.To,
		StartDate: series.StartDate,
		EndDate:   series.EndDate,
		Points:    points,
	}
}
