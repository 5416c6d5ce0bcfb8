package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount links an external bank account to a GL account.
type BankAccount struct {
	BankAccountID      string     `json:"bankAccountID"`
	Name               string     `json:"name"`
	AccountNumber      string     `json:"accountNumber"`
	InstitutionName    string     `json:"institutionName"`
	GLAccountID        string     `json:"glAccountID"`
	IsActive           bool       `json:"isActive"`
	LastReconciledDate *time.Time `json:"lastReconciledDate,omitempty"`
	AuditFields
}

// BankTransactionType indicates the direction of a bank transaction.
type BankTransactionType string

const (
	BankDebit  BankTransactionType = "DEBIT"
	BankCredit BankTransactionType = "CREDIT"
)

// BankTransactionStatus is the reconciliation state of a bank transaction.
type BankTransactionStatus string

const (
	TransactionUnmatched BankTransactionStatus = "UNMATCHED"
	TransactionMatched   BankTransactionStatus = "MATCHED"
	TransactionCleared   BankTransactionStatus = "CLEARED"
)

// bankTransactionTransitions is the authoritative transition table. Matching
// can be undone until the transaction is cleared; CLEARED is terminal.
var bankTransactionTransitions = map[BankTransactionStatus]map[BankTransactionStatus]bool{
	TransactionUnmatched: {TransactionMatched: true},
	TransactionMatched:   {TransactionCleared: true, TransactionUnmatched: true},
	TransactionCleared:   {},
}

// CanTransition reports whether a bank transaction may move from its current
// status to the target.
func (s BankTransactionStatus) CanTransition(to BankTransactionStatus) bool {
	return bankTransactionTransitions[s][to]
}

// BankTransaction is a statement-side transaction, either bulk-imported or
// derived 1:1 from a posted journal line touching a bank-backed GL account.
type BankTransaction struct {
	BankTransactionID string                `json:"bankTransactionID"`
	BankAccountID     string                `json:"bankAccountID"`
	TransactionDate   time.Time             `json:"transactionDate"`
	Description       string                `json:"description"`
	Amount            decimal.Decimal       `json:"amount"` // always >= 0; direction is Type
	Type              BankTransactionType   `json:"type"`
	Status            BankTransactionStatus `json:"status"`
	ReferenceNumber   string                `json:"referenceNumber,omitempty"`
	ImportBatchID     *string               `json:"importBatchID,omitempty"`
	JournalLineID     *string               `json:"journalLineID,omitempty"` // set when derived from the book
	AuditFields
}
