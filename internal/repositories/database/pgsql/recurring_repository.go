package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

type PgxRecurringJournalRepository struct {
	BaseRepository
}

// newPgxRecurringJournalRepository creates a new repository for recurring schedules.
func newPgxRecurringJournalRepository(pool *pgxpool.Pool) portsrepo.RecurringJournalRepository {
	return &PgxRecurringJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringJournalRepository = (*PgxRecurringJournalRepository)(nil)

const recurringColumns = `recurring_journal_id, template_journal_id, frequency, start_date, end_date, day_of_month, day_of_week, last_generated, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanRecurringJournal(row pgx.Row) (models.RecurringJournal, error) {
	var m models.RecurringJournal
	err := row.Scan(
		&m.RecurringJournalID,
		&m.TemplateJournalID,
		&m.Frequency,
		&m.StartDate,
		&m.EndDate,
		&m.DayOfMonth,
		&m.DayOfWeek,
		&m.LastGenerated,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveRecurringJournal inserts a new schedule.
func (r *PgxRecurringJournalRepository) SaveRecurringJournal(ctx context.Context, schedule domain.RecurringJournal) error {
	m := mapping.ToModelRecurringJournal(schedule)
	query := `
		INSERT INTO recurring_journals (` + recurringColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RecurringJournalID, m.TemplateJournalID, m.Frequency, m.StartDate, m.EndDate,
		m.DayOfMonth, m.DayOfWeek, m.LastGenerated, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: recurring journal %s already exists", apperrors.ErrDuplicate, m.RecurringJournalID)
		}
		return fmt.Errorf("failed to save recurring journal %s: %w", m.RecurringJournalID, err)
	}
	return nil
}

// FindRecurringJournalByID retrieves a schedule by its id.
func (r *PgxRecurringJournalRepository) FindRecurringJournalByID(ctx context.Context, recurringJournalID string) (*domain.RecurringJournal, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_journals WHERE recurring_journal_id = $1;`
	m, err := scanRecurringJournal(r.Pool.QueryRow(ctx, query, recurringJournalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("recurring journal %s not found", recurringJournalID))
		}
		return nil, fmt.Errorf("failed to find recurring journal %s: %w", recurringJournalID, err)
	}
	schedule := mapping.ToDomainRecurringJournal(m)
	return &schedule, nil
}

// ListRecurringJournals returns schedules, optionally restricted to active ones.
func (r *PgxRecurringJournalRepository) ListRecurringJournals(ctx context.Context, activeOnly bool) ([]domain.RecurringJournal, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_journals`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring journals: %w", err)
	}
	defer rows.Close()

	var schedules []models.RecurringJournal
	for rows.Next() {
		m, err := scanRecurringJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring journal row: %w", err)
		}
		schedules = append(schedules, m)
	}
	return mapping.ToDomainRecurringJournalSlice(schedules), rows.Err()
}

// PatchRecurringJournal applies the typed allow-list patch. COALESCE keeps
// unset fields untouched; is_active and end_date need explicit NULL handling
// so they use dedicated parameters.
func (r *PgxRecurringJournalRepository) PatchRecurringJournal(ctx context.Context, recurringJournalID string, patch domain.RecurringJournalPatch, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE recurring_journals
		SET frequency = COALESCE($2, frequency),
			start_date = COALESCE($3, start_date),
			end_date = COALESCE($4, end_date),
			day_of_month = COALESCE($5, day_of_month),
			day_of_week = COALESCE($6, day_of_week),
			is_active = COALESCE($7, is_active),
			last_updated_at = $8,
			last_updated_by = $9
		WHERE recurring_journal_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		recurringJournalID,
		patch.Frequency, patch.StartDate, patch.EndDate, patch.DayOfMonth, patch.DayOfWeek, patch.IsActive,
		updatedAt, updatedByUserID,
	)
	if err != nil {
		return fmt.Errorf("failed to patch recurring journal %s: %w", recurringJournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("recurring journal %s not found", recurringJournalID))
	}
	return nil
}

// GenerateOccurrence inserts the cloned draft journal with its lines and
// advances last_generated to the occurrence date in one transaction. The
// watermark update is guarded against the value read by the caller, so
// concurrent ticks generate each occurrence at most once.
func (r *PgxRecurringJournalRepository) GenerateOccurrence(ctx context.Context, recurringJournalID string, previousWatermark *time.Time, occurrence time.Time, journal domain.Journal, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE recurring_journals
		SET last_generated = $2, last_updated_at = $3, last_updated_by = $4
		WHERE recurring_journal_id = $1 AND last_generated IS NOT DISTINCT FROM $5;
	`, recurringJournalID, occurrence, journal.LastUpdatedAt, journal.LastUpdatedBy, previousWatermark)
	if err != nil {
		return fmt.Errorf("failed to advance watermark for schedule %s: %w", recurringJournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: schedule %s watermark moved concurrently", apperrors.ErrConflict, recurringJournalID)
	}

	batch := &pgx.Batch{}
	queueInsertJournal(batch, mapping.ToModelJournal(journal))
	queueInsertLines(batch, mapping.ToModelJournalLineSlice(lines))
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert generated journal %s: %w", journal.JournalID, err)
	}

	return r.Commit(ctx, tx)
}
