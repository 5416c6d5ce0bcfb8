package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// JournalReader defines read operations for journal data.
type JournalReader interface {
	// FindJournalByID retrieves a journal by its unique identifier. Soft-deleted
	// journals are treated as not found.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindLinesByJournalID retrieves all lines of a journal in insertion order.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// ListJournals retrieves a paginated list of journals using token-based
	// pagination. It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error)

	// FindPostedLinesByAccount retrieves lines of posted journals touching the
	// account within the inclusive date window. JournalDate and JournalMemo are
	// denormalized onto each line for match scoring.
	FindPostedLinesByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.JournalLine, error)
}

// JournalWriter defines write operations for journal data. Every multi-row
// mutation executes inside a single database transaction.
type JournalWriter interface {
	// SaveJournal persists a journal header and its lines atomically.
	SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error

	// ReplaceJournalLines updates the journal header and wholesale-replaces its
	// lines (delete + reinsert) in one transaction.
	ReplaceJournalLines(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error

	// UpdateJournalStatus moves a journal from the expected lifecycle status to
	// the given one. The transition is guarded at the row level: if the journal
	// is no longer in the expected status a conflict is returned and nothing
	// changes.
	UpdateJournalStatus(ctx context.Context, journalID string, from, to domain.JournalStatus, updatedByUserID string, updatedAt time.Time) error

	// SaveReversal persists the reversing journal with its lines and links the
	// original (reversed_by) and the new journal (reversal_of) atomically.
	SaveReversal(ctx context.Context, reversing domain.Journal, lines []domain.JournalLine, originalJournalID string, updatedByUserID string, updatedAt time.Time) error

	// SoftDeleteJournal marks a journal deleted without removing rows.
	SoftDeleteJournal(ctx context.Context, journalID string, deletedByUserID string, deletedAt time.Time) error
}

// PeriodLockRepository manages closed accounting periods keyed by YYYY-MM.
type PeriodLockRepository interface {
	IsPeriodLocked(ctx context.Context, period string) (bool, error)
	CreatePeriodLock(ctx context.Context, lock domain.PeriodLock) error
	DeletePeriodLock(ctx context.Context, period string) error
	ListPeriodLocks(ctx context.Context) ([]domain.PeriodLock, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
