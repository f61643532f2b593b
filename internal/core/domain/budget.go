package domain

import "github.com/shopspring/decimal"

// BudgetStatus summarizes how monthly spending compares to the budgeted amount.
type BudgetStatus string

const (
	BudgetUnder BudgetStatus = "UNDER" // Spending below 80% of the budget
	BudgetNear  BudgetStatus = "NEAR"  // Spending between 80% and 100%
	BudgetOver  BudgetStatus = "OVER"  // Spending above the budget
)

// Budget is a user's monthly spending cap expressed in their chosen currency.
type Budget struct {
	BudgetID     string          `json:"budgetID"` // Primary Key (e.g., UUID)
	UserID       string          `json:"userID"`   // FK -> users.user_id (one budget per user)
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	AuditFields
}

// BudgetReport pairs a budget with the spending computed against it.
type BudgetReport struct {
	Budget       Budget          `json:"budget"`
	MonthlySpend decimal.Decimal `json:"monthlySpend"` // Normalized to the budget currency
	Utilization  float64         `json:"utilization"`  // MonthlySpend / Amount
	Status       BudgetStatus    `json:"status"`
}
