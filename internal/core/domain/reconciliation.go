package domain

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

// reconciliationTransitions is the authoritative transition table.
// Reopening deliberately does not return to PENDING so history is preserved.
var reconciliationTransitions = map[ReconciliationStatus]map[ReconciliationStatus]bool{
	ReconciliationPending:   {ReconciliationCompleted: true},
	ReconciliationCompleted: {ReconciliationReopened: true},
	ReconciliationReopened:  {},
}

// CanTransition reports whether a session may move from its current status to the target.
func (s ReconciliationStatus) CanTransition(to ReconciliationStatus) bool {
	return reconciliationTransitions[s][to]
}

// ReconciliationSession pairs a statement period and balance against the bank
// and book transactions of one bank account. At most one PENDING session may
// exist per bank account.
type ReconciliationSession struct {
	SessionID            string               `json:"sessionID"`
	BankAccountID        string               `json:"bankAccountID"`
	StartDate            time.Time            `json:"startDate"`
	EndDate              time.Time            `json:"endDate"`
	BankStatementBalance decimal.Decimal      `json:"bankStatementBalance"`
	Status               ReconciliationStatus `json:"status"`
	CompletedAt          *time.Time           `json:"completedAt,omitempty"`
	AuditFields
}

// MatchSuggestion pairs an unmatched bank transaction with a candidate
// journal line. Score is 0..1, higher is a better match.
type MatchSuggestion struct {
	BankTransactionID string          `json:"bankTransactionID"`
	JournalID         string          `json:"journalID"`
	JournalLineID     string          `json:"journalLineID"`
	Amount            decimal.Decimal `json:"amount"`
	Score             float64         `json:"score"`
}
