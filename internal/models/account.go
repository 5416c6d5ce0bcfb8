package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a chart-of-accounts row.
type Account struct {
	AccountID   string          `db:"account_id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	AccountType AccountType     `db:"account_type"`
	Description string          `db:"description"`
	IsActive    bool            `db:"is_active"`
	IsDeleted   bool            `db:"is_deleted"`
	Balance     decimal.Decimal `db:"balance"` // Persisted derived balance
	AuditFields
}
