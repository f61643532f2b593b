package dto

import (
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetBudgetRequest defines the data needed to set or replace the monthly budget.
type SetBudgetRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,currencycode"`
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID     string          `json:"budgetID"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO
func ToBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:     b.BudgetID,
		Amount:       b.Amount,
		CurrencyCode: b.CurrencyCode,
	}
}

// BudgetReportResponse defines the budget utilization report response.
type BudgetReportResponse struct {
	Budget       BudgetResponse  `json:"budget"`
	MonthlySpend decimal.Decimal `json:"monthlySpend"`
	Utilization  float64         `json:"utilization"` // MonthlySpend / Amount
	Status       string          `json:"status"`      // UNDER, NEAR or OVER
}

// ToBudgetReportResponse converts a domain.BudgetReport to BudgetReportResponse DTO
func ToBudgetReportResponse(report *domain.BudgetReport) BudgetReportResponse {
	return BudgetReportResponse{
		Budget:       ToBudgetResponse(&report.Budget),
		MonthlySpend: report.MonthlySpend,
		Utilization:  report.Utilization,
		Status:       string(report.Status),
	}
}
