package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

const (
	defaultJournalPageSize = 20
	maxJournalPageSize     = 100

	// SourceManual marks journals created through the API by hand.
	SourceManual = "MANUAL"
	// SourceRecurring marks journals stamped out by the schedule engine.
	SourceRecurring = "RECURRING"
	// SourceImport marks journals originating from statement imports.
	SourceImport = "IMPORT"
)

// journalService provides the journal store operations: draft creation, the
// posting lifecycle, reversal, and period-lock management.
type journalService struct {
	journalRepo    portsrepo.JournalRepositoryFacade
	periodLockRepo portsrepo.PeriodLockRepository
	bankRepo       portsrepo.BankRepositoryFacade
	auditRepo      portsrepo.AuditEventRepository
	hooks          *HookPipeline
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, periodLockRepo portsrepo.PeriodLockRepository, bankRepo portsrepo.BankRepositoryFacade, auditRepo portsrepo.AuditEventRepository, hooks *HookPipeline) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo:    journalRepo,
		periodLockRepo: periodLockRepo,
		bankRepo:       bankRepo,
		auditRepo:      auditRepo,
		hooks:          hooks,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func linesFromRequest(journalID string, reqs []dto.JournalLineRequest, userID string, now time.Time) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, req := range reqs {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   req.AccountID,
			Description: req.Description,
			Debit:       req.Debit,
			Credit:      req.Credit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}

// CreateDraft creates a new draft journal with its lines after validation.
func (s *journalService) CreateDraft(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	journalID := uuid.NewString()
	lines := linesFromRequest(journalID, req.Lines, creatorUserID, now)

	if err := accounting.ValidateBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	debits, credits := accounting.Totals(lines)
	journal := domain.Journal{
		JournalID:       journalID,
		Memo:            req.Memo,
		JournalDate:     req.Date,
		Source:          SourceManual,
		ReferenceNumber: req.ReferenceNumber,
		Status:          domain.Draft,
		TotalDebits:     debits,
		TotalCredits:    credits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveJournal(ctx, journal, lines); err != nil {
		logger.Error("Failed to save draft journal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	journal.Lines = lines
	logger.Info("Draft journal created", slog.String("journal_id", journalID))
	return &journal, nil
}

// GetJournalByID retrieves a journal with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}
	journal.Lines = lines
	return journal, nil
}

// ListJournals retrieves a paginated list of journals.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultJournalPageSize
	}
	if limit > maxJournalPageSize {
		limit = maxJournalPageSize
	}

	journals, nextToken, err := s.journalRepo.ListJournals(ctx, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}

	responses := make([]dto.JournalResponse, len(journals))
	for i := range journals {
		if params.IncludeLines {
			lines, err := s.journalRepo.FindLinesByJournalID(ctx, journals[i].JournalID)
			if err != nil {
				return nil, fmt.Errorf("failed to load journal lines: %w", err)
			}
			journals[i].Lines = lines
		}
		responses[i] = dto.ToJournalResponse(&journals[i])
	}

	return &dto.ListJournalsResponse{Journals: responses, NextToken: nextToken}, nil
}

// PostJournal moves a draft journal to POSTED, running the lifecycle pipeline
// around the transition.
func (s *journalService) PostJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if !journal.Status.CanTransition(domain.Posted) {
		return nil, fmt.Errorf("%w: journal %s cannot be posted from status %s", apperrors.ErrConflict, journalID, journal.Status)
	}
	if !journal.IsBalanced() {
		return nil, fmt.Errorf("%w: journal %s does not balance: debits %s, credits %s",
			apperrors.ErrValidation, journalID, journal.TotalDebits, journal.TotalCredits)
	}

	now := time.Now()
	hc := &HookContext{
		Operation: OperationPost,
		Journal:   journal,
		Lines:     journal.Lines,
		UserID:    userID,
		Now:       now,
	}
	if err := s.hooks.RunBefore(ctx, hc); err != nil {
		return nil, err
	}

	if err := s.journalRepo.UpdateJournalStatus(ctx, journalID, domain.Draft, domain.Posted, userID, now); err != nil {
		logger.Error("Failed to post journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to post journal: %w", err)
	}

	journal.Status = domain.Posted
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = userID
	s.hooks.RunAfter(ctx, hc)

	logger.Info("Journal posted", slog.String("journal_id", journalID))
	return journal, nil
}

// UnpostJournal moves a posted journal back to DRAFT. A reversed journal can
// never be unposted: its status is terminal.
func (s *journalService) UnpostJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status == domain.Reversed {
		return nil, fmt.Errorf("%w: journal %s has been reversed and cannot be unposted", apperrors.ErrConflict, journalID)
	}
	if !journal.Status.CanTransition(domain.Draft) {
		return nil, fmt.Errorf("%w: journal %s cannot be unposted from status %s", apperrors.ErrConflict, journalID, journal.Status)
	}

	now := time.Now()
	hc := &HookContext{
		Operation: OperationUnpost,
		Journal:   journal,
		Lines:     journal.Lines,
		UserID:    userID,
		Now:       now,
	}
	if err := s.hooks.RunBefore(ctx, hc); err != nil {
		return nil, err
	}

	if err := s.journalRepo.UpdateJournalStatus(ctx, journalID, domain.Posted, domain.Draft, userID, now); err != nil {
		logger.Error("Failed to unpost journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to unpost journal: %w", err)
	}

	journal.Status = domain.Draft
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = userID
	s.hooks.RunAfter(ctx, hc)

	logger.Info("Journal unposted", slog.String("journal_id", journalID))
	return journal, nil
}

// UpdateJournal revises a draft journal. Posted journals are immutable; lines,
// when supplied, replace the existing set wholesale.
func (s *journalService) UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.Draft {
		return nil, fmt.Errorf("%w: journal %s is %s and cannot be edited", apperrors.ErrConflict, journalID, journal.Status)
	}

	before := *journal
	beforeLines := journal.Lines

	now := time.Now()
	updated := *journal
	if req.Date != nil {
		updated.JournalDate = *req.Date
	}
	if req.Memo != nil {
		updated.Memo = *req.Memo
	}
	if req.ReferenceNumber != nil {
		updated.ReferenceNumber = *req.ReferenceNumber
	}
	lines := beforeLines
	if req.Lines != nil {
		lines = linesFromRequest(journalID, req.Lines, userID, now)
	}
	debits, credits := accounting.Totals(lines)
	updated.TotalDebits = debits
	updated.TotalCredits = credits
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	hc := &HookContext{
		Operation:   OperationUpdate,
		Journal:     &updated,
		Lines:       lines,
		Before:      &before,
		BeforeLines: beforeLines,
		UserID:      userID,
		Now:         now,
	}
	if err := s.hooks.RunBefore(ctx, hc); err != nil {
		return nil, err
	}

	if err := s.journalRepo.ReplaceJournalLines(ctx, updated, lines); err != nil {
		logger.Error("Failed to update journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update journal: %w", err)
	}

	updated.Lines = lines
	s.hooks.RunAfter(ctx, hc)

	logger.Info("Journal updated", slog.String("journal_id", journalID))
	return &updated, nil
}

// DeleteJournal soft-deletes a draft journal. Posted journals and journals
// with dependent bank transactions are protected.
func (s *journalService) DeleteJournal(ctx context.Context, journalID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return err
	}
	if journal.Status != domain.Draft {
		return fmt.Errorf("%w: journal %s is %s and cannot be deleted", apperrors.ErrConflict, journalID, journal.Status)
	}

	dependents, err := s.bankRepo.CountByJournal(ctx, journalID)
	if err != nil {
		return fmt.Errorf("failed to check dependent bank transactions: %w", err)
	}
	if dependents > 0 {
		return fmt.Errorf("%w: journal %s has %d dependent bank transactions", apperrors.ErrConflict, journalID, dependents)
	}

	now := time.Now()
	hc := &HookContext{
		Operation: OperationDelete,
		Journal:   journal,
		Lines:     journal.Lines,
		UserID:    userID,
		Now:       now,
	}
	if err := s.hooks.RunBefore(ctx, hc); err != nil {
		return err
	}

	if err := s.journalRepo.SoftDeleteJournal(ctx, journalID, userID, now); err != nil {
		logger.Error("Failed to delete journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete journal: %w", err)
	}

	s.hooks.RunAfter(ctx, hc)
	logger.Info("Journal deleted", slog.String("journal_id", journalID))
	return nil
}

// ReverseJournal creates and posts a reversing journal for a posted journal:
// debits and credits swapped, both journals linked, original marked REVERSED.
// The whole mutation is atomic.
func (s *journalService) ReverseJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.ReversedByJournalID != nil {
		return nil, fmt.Errorf("%w: journal %s is already reversed by %s", apperrors.ErrConflict, journalID, *original.ReversedByJournalID)
	}
	if !original.Status.CanTransition(domain.Reversed) {
		return nil, fmt.Errorf("%w: journal %s cannot be reversed from status %s", apperrors.ErrConflict, journalID, original.Status)
	}

	now := time.Now()
	reversingID := uuid.NewString()
	originalID := original.JournalID

	lines := make([]domain.JournalLine, len(original.Lines))
	for i, line := range original.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   reversingID,
			AccountID:   line.AccountID,
			Description: "Reversal of " + line.Description,
			Debit:       line.Credit,
			Credit:      line.Debit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	debits, credits := accounting.Totals(lines)
	reversing := domain.Journal{
		JournalID:           reversingID,
		Memo:                fmt.Sprintf("Reversal of Journal #%s: %s", originalID, original.Memo),
		JournalDate:         now,
		Source:              original.Source,
		ReferenceNumber:     "REV-" + originalID,
		Status:              domain.Posted,
		ReversalOfJournalID: &originalID,
		TotalDebits:         debits,
		TotalCredits:        credits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	hc := &HookContext{
		Operation:   OperationReverse,
		Journal:     &reversing,
		Lines:       lines,
		Before:      original,
		BeforeLines: original.Lines,
		UserID:      userID,
		Now:         now,
	}
	if err := s.hooks.RunBefore(ctx, hc); err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveReversal(ctx, reversing, lines, originalID, userID, now); err != nil {
		logger.Error("Failed to reverse journal", slog.String("journal_id", originalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to reverse journal: %w", err)
	}

	reversing.Lines = lines
	s.hooks.RunAfter(ctx, hc)

	logger.Info("Journal reversed",
		slog.String("journal_id", originalID),
		slog.String("reversing_journal_id", reversingID),
	)
	return &reversing, nil
}

// ListAuditEvents returns the audit trail of a journal.
func (s *journalService) ListAuditEvents(ctx context.Context, journalID string) ([]domain.AuditEvent, error) {
	if _, err := s.journalRepo.FindJournalByID(ctx, journalID); err != nil {
		return nil, err
	}
	return s.auditRepo.ListAuditEventsByJournal(ctx, journalID)
}

// LockPeriod closes the YYYY-MM accounting period for posting.
func (s *journalService) LockPeriod(ctx context.Context, period string, userID string) error {
	if _, err := time.Parse("2006-01", period); err != nil {
		return fmt.Errorf("%w: period must be in YYYY-MM form, got %q", apperrors.ErrValidation, period)
	}
	lock := domain.PeriodLock{
		Period:   period,
		LockedBy: userID,
		LockedAt: time.Now(),
	}
	if err := s.periodLockRepo.CreatePeriodLock(ctx, lock); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Accounting period locked", slog.String("period", period))
	return nil
}

// UnlockPeriod reopens a closed accounting period.
func (s *journalService) UnlockPeriod(ctx context.Context, period string) error {
	if err := s.periodLockRepo.DeletePeriodLock(ctx, period); err != nil {
		return err
	}
	middleware.GetLoggerFromCtx(ctx).Info("Accounting period unlocked", slog.String("period", period))
	return nil
}

// ListPeriodLocks returns all closed periods.
func (s *journalService) ListPeriodLocks(ctx context.Context) ([]domain.PeriodLock, error) {
	return s.periodLockRepo.ListPeriodLocks(ctx)
}
