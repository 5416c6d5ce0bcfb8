package domain

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

// Account represents a chart-of-accounts entry.
// Balance is a derived cache recomputed from the journal line ledger; it is
// written only by the posting lifecycle pipeline, never by callers.
type Account struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	IsDeleted   bool            `json:"isDeleted"`
	Balance     decimal.Decimal `json:"balance"`
	AuditFields
}
