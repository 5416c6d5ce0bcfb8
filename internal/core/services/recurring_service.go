package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

var (
	ErrScheduleEndBeforeStart = errors.New("schedule end date is before its start date")
	ErrTemplateNotDraftable   = errors.New("template journal must exist and not be deleted")
)

// rruleWeekdays maps day_of_week (0 = Sunday) to rrule weekdays.
var rruleWeekdays = []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// recurringService manages recurring journal schedules and the generation tick.
type recurringService struct {
	recurringRepo portsrepo.RecurringJournalRepository
	journalRepo   portsrepo.JournalRepositoryFacade
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(recurringRepo portsrepo.RecurringJournalRepository, journalRepo portsrepo.JournalRepositoryFacade) portssvc.RecurringSvcFacade {
	return &recurringService{
		recurringRepo: recurringRepo,
		journalRepo:   journalRepo,
	}
}

// Ensure recurringService implements the portssvc.RecurringSvcFacade interface
var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

// CreateRecurringJournal creates a new schedule referencing a template journal.
func (s *recurringService) CreateRecurringJournal(ctx context.Context, req dto.CreateRecurringJournalRequest, creatorUserID string) (*domain.RecurringJournal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	template, err := s.journalRepo.FindJournalByID(ctx, req.TemplateJournalID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrTemplateNotDraftable.Error())
		}
		return nil, err
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrScheduleEndBeforeStart.Error())
	}

	now := time.Now()
	schedule := domain.RecurringJournal{
		RecurringJournalID: uuid.NewString(),
		TemplateJournalID:  template.JournalID,
		Frequency:          req.Frequency,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		DayOfMonth:         req.DayOfMonth,
		DayOfWeek:          req.DayOfWeek,
		IsActive:           true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// The rule must be constructible now, not at tick time.
	if _, err := scheduleRule(schedule); err != nil {
		return nil, fmt.Errorf("%w: invalid schedule: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.recurringRepo.SaveRecurringJournal(ctx, schedule); err != nil {
		logger.Error("Failed to save recurring journal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save recurring journal: %w", err)
	}

	logger.Info("Recurring journal created", slog.String("recurring_journal_id", schedule.RecurringJournalID))
	return &schedule, nil
}

// GetRecurringJournalByID retrieves a schedule by its id.
func (s *recurringService) GetRecurringJournalByID(ctx context.Context, recurringJournalID string) (*domain.RecurringJournal, error) {
	return s.recurringRepo.FindRecurringJournalByID(ctx, recurringJournalID)
}

// ListRecurringJournals returns schedules, optionally only active ones.
func (s *recurringService) ListRecurringJournals(ctx context.Context, activeOnly bool) ([]domain.RecurringJournal, error) {
	return s.recurringRepo.ListRecurringJournals(ctx, activeOnly)
}

// PatchRecurringJournal applies the typed allow-list patch to a schedule.
func (s *recurringService) PatchRecurringJournal(ctx context.Context, recurringJournalID string, req dto.PatchRecurringJournalRequest, userID string) (*domain.RecurringJournal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	schedule, err := s.recurringRepo.FindRecurringJournalByID(ctx, recurringJournalID)
	if err != nil {
		return nil, err
	}

	patch := req.ToPatch()
	start := schedule.StartDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	end := schedule.EndDate
	if patch.EndDate != nil {
		end = patch.EndDate
	}
	if end != nil && end.Before(start) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrScheduleEndBeforeStart.Error())
	}

	if err := s.recurringRepo.PatchRecurringJournal(ctx, recurringJournalID, patch, userID, time.Now()); err != nil {
		logger.Error("Failed to patch recurring journal", slog.String("recurring_journal_id", recurringJournalID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to patch recurring journal: %w", err)
	}

	logger.Info("Recurring journal patched", slog.String("recurring_journal_id", recurringJournalID))
	return s.recurringRepo.FindRecurringJournalByID(ctx, recurringJournalID)
}

// GenerateDueJournals is the externally triggered generation tick. For every
// active schedule it materializes all occurrences after the last_generated
// watermark up to asOf as draft journals cloned from the template. Repeated
// ticks for the same day generate nothing new.
func (s *recurringService) GenerateDueJournals(ctx context.Context, asOf time.Time, userID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	schedules, err := s.recurringRepo.ListRecurringJournals(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("failed to list active schedules: %w", err)
	}

	generated := 0
	for i := range schedules {
		count, err := s.generateForSchedule(ctx, schedules[i], asOf, userID)
		if err != nil {
			// One broken schedule must not starve the rest of the tick.
			logger.Error("Failed to generate from schedule",
				slog.String("recurring_journal_id", schedules[i].RecurringJournalID),
				slog.String("error", err.Error()),
			)
			continue
		}
		generated += count
	}

	logger.Info("Recurring generation tick finished", slog.Int("generated", generated), slog.Time("as_of", asOf))
	return generated, nil
}

func (s *recurringService) generateForSchedule(ctx context.Context, schedule domain.RecurringJournal, asOf time.Time, userID string) (int, error) {
	occurrences, err := dueOccurrences(schedule, asOf)
	if err != nil {
		return 0, err
	}
	if len(occurrences) == 0 {
		return 0, nil
	}

	template, err := s.journalRepo.FindJournalByID(ctx, schedule.TemplateJournalID)
	if err != nil {
		return 0, fmt.Errorf("failed to load template journal %s: %w", schedule.TemplateJournalID, err)
	}
	templateLines, err := s.journalRepo.FindLinesByJournalID(ctx, template.JournalID)
	if err != nil {
		return 0, fmt.Errorf("failed to load template lines: %w", err)
	}

	generated := 0
	watermark := schedule.LastGenerated
	for _, occurrence := range occurrences {
		journal, lines := cloneTemplate(template, templateLines, occurrence, userID)
		err := s.recurringRepo.GenerateOccurrence(ctx, schedule.RecurringJournalID, watermark, occurrence, journal, lines)
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				// Another tick advanced the watermark first; its occurrence wins.
				return generated, nil
			}
			return generated, err
		}
		generated++
		w := occurrence
		watermark = &w
	}
	return generated, nil
}

// cloneTemplate stamps a fresh draft journal out of the template for one occurrence.
func cloneTemplate(template *domain.Journal, templateLines []domain.JournalLine, occurrence time.Time, userID string) (domain.Journal, []domain.JournalLine) {
	now := time.Now()
	journalID := uuid.NewString()

	lines := make([]domain.JournalLine, len(templateLines))
	for i, line := range templateLines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   line.AccountID,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	journal := domain.Journal{
		JournalID:       journalID,
		Memo:            template.Memo,
		JournalDate:     occurrence,
		Source:          SourceRecurring,
		ReferenceNumber: template.ReferenceNumber,
		Status:          domain.Draft,
		TotalDebits:     template.TotalDebits,
		TotalCredits:    template.TotalCredits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	return journal, lines
}

// scheduleRule builds the recurrence rule for a schedule. Monthly schedules
// with day_of_month 31 or 0 recur on the last day of each month, so short
// months still get their occurrence.
func scheduleRule(schedule domain.RecurringJournal) (*rrule.RRule, error) {
	opts := rrule.ROption{Dtstart: schedule.StartDate.UTC()}
	switch schedule.Frequency {
	case domain.FrequencyDaily:
		opts.Freq = rrule.DAILY
	case domain.FrequencyWeekly:
		opts.Freq = rrule.WEEKLY
		day := int(schedule.StartDate.Weekday())
		if schedule.DayOfWeek != nil {
			day = *schedule.DayOfWeek
		}
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("day_of_week %d out of range", day)
		}
		opts.Byweekday = []rrule.Weekday{rruleWeekdays[day]}
	case domain.FrequencyMonthly:
		opts.Freq = rrule.MONTHLY
		day := schedule.StartDate.Day()
		if schedule.DayOfMonth != nil {
			day = *schedule.DayOfMonth
		}
		if day < 0 || day > 31 {
			return nil, fmt.Errorf("day_of_month %d out of range", day)
		}
		if day == 31 || day == 0 {
			opts.Bymonthday = []int{-1}
		} else {
			opts.Bymonthday = []int{day}
		}
	default:
		return nil, fmt.Errorf("unknown frequency %q", schedule.Frequency)
	}
	if schedule.EndDate != nil {
		opts.Until = schedule.EndDate.UTC()
	}
	return rrule.NewRRule(opts)
}

// dueOccurrences lists the occurrences strictly after the watermark, up to
// and including asOf.
func dueOccurrences(schedule domain.RecurringJournal, asOf time.Time) ([]time.Time, error) {
	rule, err := scheduleRule(schedule)
	if err != nil {
		return nil, err
	}
	lower := schedule.StartDate.UTC()
	if schedule.LastGenerated != nil {
		lower = schedule.LastGenerated.UTC().Add(time.Second)
	}
	upper := asOf.UTC()
	if upper.Before(lower) {
		return nil, nil
	}
	return rule.Between(lower, upper, true), nil
}
