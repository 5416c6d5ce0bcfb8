package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount links an external bank account to a GL account.
type BankAccount struct {
	BankAccountID      string     `db:"bank_account_id"`
	Name               string     `db:"name"`
	AccountNumber      string     `db:"account_number"`
	InstitutionName    string     `db:"institution_name"`
	GLAccountID        string     `db:"gl_account_id"`
	IsActive           bool       `db:"is_active"`
	LastReconciledDate *time.Time `db:"last_reconciled_date"` // Nullable
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

// BankTransaction is a statement-side transaction row.
type BankTransaction struct {
	BankTransactionID string                `db:"bank_transaction_id"`
	BankAccountID     string                `db:"bank_account_id"`
	TransactionDate   time.Time             `db:"transaction_date"`
	Description       string                `db:"description"`
	Amount            decimal.Decimal       `db:"amount"`
	Type              BankTransactionType   `db:"type"`
	Status            BankTransactionStatus `db:"status"`
	ReferenceNumber   string                `db:"reference_number"`
	ImportBatchID     *string               `db:"import_batch_id"` // Nullable
	JournalLineID     *string               `db:"journal_line_id"` // Nullable; set when derived
	AuditFields
}
