package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the payload for registering a bank account.
type CreateBankAccountRequest struct {
	Name            string `json:"name" binding:"required"`
	AccountNumber   string `json:"accountNumber" binding:"required"`
	InstitutionName string `json:"institutionName"`
	GLAccountID     string `json:"glAccountID" binding:"required"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID      string     `json:"bankAccountID"`
	Name               string     `json:"name"`
	AccountNumber      string     `json:"accountNumber"`
	InstitutionName    string     `json:"institutionName,omitempty"`
	GLAccountID        string     `json:"glAccountID"`
	IsActive           bool       `json:"isActive"`
	LastReconciledDate *time.Time `json:"lastReconciledDate,omitempty"`
}

// ImportBankTransactionItem is one transaction in a bulk import payload.
type ImportBankTransactionItem struct {
	Date            time.Time                  `json:"date" binding:"required"`
	Description     string                     `json:"description" binding:"required"`
	Amount          decimal.Decimal            `json:"amount" binding:"required"`
	Type            domain.BankTransactionType `json:"type" binding:"required,oneof=DEBIT CREDIT"`
	ReferenceNumber string                     `json:"referenceNumber"`
}

// ImportBankTransactionsRequest defines a bulk import payload.
type ImportBankTransactionsRequest struct {
	BankAccountID string                      `json:"bankAccountID" binding:"required"`
	Transactions  []ImportBankTransactionItem `json:"transactions" binding:"required,min=1,dive"`
}

// ImportBankTransactionsResponse reports a completed bulk import.
type ImportBankTransactionsResponse struct {
	ImportBatchID string `json:"importBatchID"`
	Imported      int    `json:"imported"`
}

// BankTransactionResponse defines the data returned for a bank transaction.
type BankTransactionResponse struct {
	BankTransactionID string          `json:"bankTransactionID"`
	BankAccountID     string          `json:"bankAccountID"`
	Date              time.Time       `json:"date"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	ReferenceNumber   string          `json:"referenceNumber,omitempty"`
	ImportBatchID     *string         `json:"importBatchID,omitempty"`
}

// ToBankAccountResponse converts a domain.BankAccount.
func ToBankAccountResponse(a *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:      a.BankAccountID,
		Name:               a.Name,
		AccountNumber:      a.AccountNumber,
		InstitutionName:    a.InstitutionName,
		GLAccountID:        a.GLAccountID,
		IsActive:           a.IsActive,
		LastReconciledDate: a.LastReconciledDate,
	}
}

// ToBankTransactionResponse converts a domain.BankTransaction.
func ToBankTransactionResponse(t *domain.BankTransaction) BankTransactionResponse {
	return BankTransactionResponse{
		BankTransactionID: t.BankTransactionID,
		BankAccountID:     t.BankAccountID,
		Date:              t.TransactionDate,
		Description:       t.Description,
		Amount:            t.Amount,
		Type:              string(t.Type),
		Status:            string(t.Status),
		ReferenceNumber:   t.ReferenceNumber,
		ImportBatchID:     t.ImportBatchID,
	}
}

// ToBankTransactionResponses converts a slice of domain bank transactions.
func ToBankTransactionResponses(txns []domain.BankTransaction) []BankTransactionResponse {
	responses := make([]BankTransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToBankTransactionResponse(&txns[i])
	}
	return responses
}
