package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// RecurringSvcFacade exposes recurring journal schedules and the generation tick.
type RecurringSvcFacade interface {
	CreateRecurringJournal(ctx context.Context, req dto.CreateRecurringJournalRequest, creatorUserID string) (*domain.RecurringJournal, error)
	GetRecurringJournalByID(ctx context.Context, recurringJournalID string) (*domain.RecurringJournal, error)
	ListRecurringJournals(ctx context.Context, activeOnly bool) ([]domain.RecurringJournal, error)
	PatchRecurringJournal(ctx context.Context, recurringJournalID string, req dto.PatchRecurringJournalRequest, userID string) (*domain.RecurringJournal, error)

	// GenerateDueJournals is the externally triggered tick. It is idempotent:
	// invoking it repeatedly for the same day generates nothing new.
	GenerateDueJournals(ctx context.Context, asOf time.Time, userID string) (int, error)
}
