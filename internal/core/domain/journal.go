package domain

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

// journalTransitions is the authoritative transition table for the journal
// lifecycle. DRAFT -> POSTED (post), POSTED -> DRAFT (unpost),
// POSTED -> REVERSED (reverse). REVERSED is terminal.
var journalTransitions = map[JournalStatus]map[JournalStatus]bool{
	Draft:    {Posted: true},
	Posted:   {Draft: true, Reversed: true},
	Reversed: {},
}

// CanTransition reports whether a journal may move from its current status to the target.
func (s JournalStatus) CanTransition(to JournalStatus) bool {
	return journalTransitions[s][to]
}

// BalanceTolerance absorbs rounding when comparing total debits against
// total credits.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// Journal represents a double-entry accounting transaction header.
// Once posted it is immutable except for reversal and unpost metadata.
type Journal struct {
	JournalID           string          `json:"journalID"`
	Memo                string          `json:"memo"`
	JournalDate         time.Time       `json:"journalDate"`
	Source              string          `json:"source"` // MANUAL, RECURRING, IMPORT
	ReferenceNumber     string          `json:"referenceNumber"`
	Status              JournalStatus   `json:"status"`
	IsDeleted           bool            `json:"isDeleted"`
	ReversalOfJournalID *string         `json:"reversalOfJournalID,omitempty"` // set on the reversing journal
	ReversedByJournalID *string         `json:"reversedByJournalID,omitempty"` // set on the reversed original
	TotalDebits         decimal.Decimal `json:"totalDebits"`                   // derived cache
	TotalCredits        decimal.Decimal `json:"totalCredits"`                  // derived cache
	Lines               []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// IsBalanced reports whether total debits equal total credits within tolerance.
func (j Journal) IsBalanced() bool {
	return j.TotalDebits.Sub(j.TotalCredits).Abs().LessThan(BalanceTolerance)
}

// PeriodKey returns the YYYY-MM accounting period the journal is dated in.
func (j Journal) PeriodKey() string {
	return j.JournalDate.Format("2006-01")
}

// JournalLine is a single line item within a journal, affecting one account.
// Exactly one of Debit/Credit is nonzero. Lines are owned by their journal
// and replaced wholesale on update.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	JournalID   string          `json:"journalID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	// JournalDate and JournalMemo are denormalized from the owning journal on
	// reads that need them (match scoring); they are never persisted on the line.
	JournalDate time.Time `json:"journalDate,omitempty"`
	JournalMemo string    `json:"journalMemo,omitempty"`
	AuditFields
}

// IsDebit reports whether the line carries a debit amount.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the nonzero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// PeriodLock marks an accounting period (YYYY-MM) as closed for posting.
type PeriodLock struct {
	Period   string    `json:"period"`
	LockedBy string    `json:"lockedBy"`
	LockedAt time.Time `json:"lockedAt"`
}
