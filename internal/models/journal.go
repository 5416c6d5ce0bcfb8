package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the lifecycle state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal represents a double-entry transaction header row.
type Journal struct {
	JournalID           string          `db:"journal_id"`
	Memo                string          `db:"memo"`
	JournalDate         time.Time       `db:"journal_date"`
	Source              string          `db:"source"`
	ReferenceNumber     string          `db:"reference_number"`
	Status              JournalStatus   `db:"status"`
	IsDeleted           bool            `db:"is_deleted"`
	ReversalOfJournalID *string         `db:"reversal_of_journal_id"` // Nullable
	ReversedByJournalID *string         `db:"reversed_by_journal_id"` // Nullable
	TotalDebits         decimal.Decimal `db:"total_debits"`
	TotalCredits        decimal.Decimal `db:"total_credits"`
	AuditFields
}

// JournalLine is a single line row belonging to a journal.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	JournalID   string          `db:"journal_id"`
	AccountID   string          `db:"account_id"`
	Description string          `db:"description"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	AuditFields
}

// PeriodLock marks a YYYY-MM accounting period as closed for posting.
type PeriodLock struct {
	Period   string    `db:"period"`
	LockedBy string    `db:"locked_by"`
	LockedAt time.Time `db:"locked_at"`
}
