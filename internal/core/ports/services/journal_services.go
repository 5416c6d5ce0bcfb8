package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// JournalSvcFacade exposes the journal store operations: draft creation, the
// posting lifecycle, reversal, and period-lock management.
type JournalSvcFacade interface {
	CreateDraft(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
	PostJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error)
	UnpostJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error)
	UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, userID string) (*domain.Journal, error)
	DeleteJournal(ctx context.Context, journalID string, userID string) error
	ReverseJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error)
	ListAuditEvents(ctx context.Context, journalID string) ([]domain.AuditEvent, error)

	LockPeriod(ctx context.Context, period string, userID string) error
	UnlockPeriod(ctx context.Context, period string) error
	ListPeriodLocks(ctx context.Context) ([]domain.PeriodLock, error)
}
