package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the payload for creating a chart-of-accounts entry.
type CreateAccountRequest struct {
	Code        string             `json:"code" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Description string             `json:"description"`
}

// UpdateAccountRequest defines the mutable fields of an account. Nil leaves a
// field unchanged.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType string          `json:"accountType"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: string(a.AccountType),
		Description: a.Description,
		IsActive:    a.IsActive,
		Balance:     a.Balance,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
