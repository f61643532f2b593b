package models

import "github.com/shopspring/decimal"

// Budget represents a row in the budgets table.
type Budget struct {
	BudgetID     string          `db:"budget_id"`
	UserID       string          `db:"user_id"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	AuditFields
}
