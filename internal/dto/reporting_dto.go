package dto

import (
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SummaryParams defines query parameters for the spending summary.
type SummaryParams struct {
	Currency string `form:"currency" binding:"omitempty,currencycode"`
}

// SubscriptionCostResponse represents one subscription's share of the summary.
type SubscriptionCostResponse struct {
	SubscriptionID  string          `json:"subscriptionID"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	BillingCycle    string          `json:"billingCycle"`
	MonthlyAmount   decimal.Decimal `json:"monthlyAmount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
}

// CategoryTotalResponse represents one category's converted monthly total.
type CategoryTotalResponse struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// SpendingSummaryResponse represents the spending summary report response.
type SpendingSummaryResponse struct {
	CurrencyCode string                     `json:"currencyCode"`
	MonthlyTotal decimal.Decimal            `json:"monthlyTotal"`
	YearlyTotal  decimal.Decimal            `json:"yearlyTotal"`
	Items        []SubscriptionCostResponse `json:"items"`
	Categories   []CategoryTotalResponse    `json:"categories"`
	GeneratedAt  time.Time                  `json:"generatedAt"`
}

// ToSpendingSummaryResponse converts a domain spending summary to a DTO response
func ToSpendingSummaryResponse(summary *domain.SpendingSummary) SpendingSummaryResponse {
	response := SpendingSummaryResponse{
		CurrencyCode: summary.CurrencyCode,
		MonthlyTotal: summary.MonthlyTotal,
		YearlyTotal:  summary.YearlyTotal,
		Items:        make([]SubscriptionCostResponse, len(summary.Items)),
		Categories:   make([]CategoryTotalResponse, len(summary.Categories)),
		GeneratedAt:  summary.GeneratedAt,
	}

	for i, item := range summary.Items {
		response.Items[i] = SubscriptionCostResponse{
			SubscriptionID:  item.SubscriptionID,
			Name:            item.Name,
			Category:        item.Category,
			Amount:          item.Amount,
			CurrencyCode:    item.CurrencyCode,
			BillingCycle:    string(item.BillingCycle),
			MonthlyAmount:   item.MonthlyAmount,
			ConvertedAmount: item.ConvertedAmount,
		}
	}

	for i, cat := range summary.Categories {
		response.Categories[i] = CategoryTotalResponse{
			Category: cat.Category,
			Total:    cat.Total,
		}
	}

	return response
}
