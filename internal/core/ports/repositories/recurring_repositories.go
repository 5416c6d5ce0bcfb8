package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// RecurringJournalRepository persists recurring schedules and their
// generation watermark.
type RecurringJournalRepository interface {
	SaveRecurringJournal(ctx context.Context, schedule domain.RecurringJournal) error

	FindRecurringJournalByID(ctx context.Context, recurringJournalID string) (*domain.RecurringJournal, error)

	// ListRecurringJournals returns schedules, optionally restricted to active ones.
	ListRecurringJournals(ctx context.Context, activeOnly bool) ([]domain.RecurringJournal, error)

	// PatchRecurringJournal applies the typed allow-list patch.
	PatchRecurringJournal(ctx context.Context, recurringJournalID string, patch domain.RecurringJournalPatch, updatedByUserID string, updatedAt time.Time) error

	// GenerateOccurrence inserts the cloned draft journal with its lines and
	// advances last_generated to the occurrence date in one transaction. The
	// watermark update is guarded (last_generated unchanged since read) so
	// concurrent ticks generate at most once per occurrence.
	GenerateOccurrence(ctx context.Context, recurringJournalID string, previousWatermark *time.Time, occurrence time.Time, journal domain.Journal, lines []domain.JournalLine) error
}
