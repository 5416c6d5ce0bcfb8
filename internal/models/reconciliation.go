package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the lifecycle state of a reconciliation session.
type ReconciliationStatus string

const (
	ReconciliationPending   ReconciliationStatus = "PENDING"
	ReconciliationCompleted ReconciliationStatus = "COMPLETED"
	ReconciliationReopened  ReconciliationStatus = "REOPENED"
)

// ReconciliationSession is one reconciliation window for a bank account.
type ReconciliationSession struct {
	SessionID            string               `db:"session_id"`
	BankAccountID        string               `db:"bank_account_id"`
	StartDate            time.Time            `db:"start_date"`
	EndDate              time.Time            `db:"end_date"`
	BankStatementBalance decimal.Decimal      `db:"bank_statement_balance"`
	Status               ReconciliationStatus `db:"status"`
	CompletedAt          *time.Time           `db:"completed_at"` // Nullable
	AuditFields
}
