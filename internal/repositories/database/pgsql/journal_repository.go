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
	"github.com/finbooks/finbooks_backend/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, memo, journal_date, source, reference_number, status, is_deleted, reversal_of_journal_id, reversed_by_journal_id, total_debits, total_credits, created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, journal_id, account_id, description, debit, credit, created_at, created_by, last_updated_at, last_updated_by`

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.Memo,
		&m.JournalDate,
		&m.Source,
		&m.ReferenceNumber,
		&m.Status,
		&m.IsDeleted,
		&m.ReversalOfJournalID,
		&m.ReversedByJournalID,
		&m.TotalDebits,
		&m.TotalCredits,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanJournalLine(row pgx.Row) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.JournalID,
		&m.AccountID,
		&m.Description,
		&m.Debit,
		&m.Credit,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func queueInsertJournal(batch *pgx.Batch, m models.Journal) {
	batch.Queue(`
		INSERT INTO journals (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`,
		m.JournalID, m.Memo, m.JournalDate, m.Source, m.ReferenceNumber,
		m.Status, m.IsDeleted, m.ReversalOfJournalID, m.ReversedByJournalID,
		m.TotalDebits, m.TotalCredits,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
}

func queueInsertLines(batch *pgx.Batch, lines []models.JournalLine) {
	for _, m := range lines {
		batch.Queue(`
			INSERT INTO journal_lines (`+journalLineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`,
			m.LineID, m.JournalID, m.AccountID, m.Description, m.Debit, m.Credit,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
}

// SaveJournal persists a journal header and its lines in one transaction.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	queueInsertJournal(batch, mapping.ToModelJournal(journal))
	queueInsertLines(batch, mapping.ToModelJournalLineSlice(lines))

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: journal %s already exists", apperrors.ErrDuplicate, journal.JournalID)
		}
		return fmt.Errorf("failed to save journal %s: %w", journal.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// FindJournalByID retrieves a journal header. Soft-deleted journals are not found.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1 AND is_deleted = FALSE;`
	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal %s not found", journalID))
		}
		return nil, fmt.Errorf("failed to find journal %s: %w", journalID, err)
	}
	journal := mapping.ToDomainJournal(m)
	return &journal, nil
}

// FindLinesByJournalID retrieves all lines of a journal in insertion order.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_id = $1 ORDER BY created_at, line_id;`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for journal %s: %w", journalID, err)
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		m, err := scanJournalLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, m)
	}
	return mapping.ToDomainJournalLineSlice(lines), rows.Err()
}

// ListJournals retrieves a paginated list of journals using token-based
// pagination ordered by journal date then creation time, newest first.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE is_deleted = FALSE`
	args := []interface{}{}
	argPos := 1

	if !includeReversals {
		query += ` AND reversal_of_journal_id IS NULL`
	}

	if nextToken != nil && *nextToken != "" {
		journalDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += fmt.Sprintf(` AND (journal_date, created_at) < ($%d, $%d)`, argPos, argPos+1)
		args = append(args, journalDate, createdAt)
		argPos += 2
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY journal_date DESC, created_at DESC LIMIT $%d;`, argPos)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journals: %w", err)
	}
	defer rows.Close()

	var journals []models.Journal
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		journals = append(journals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var token *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[len(journals)-1]
		t := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		token = &t
	}
	return mapping.ToDomainJournalSlice(journals), token, nil
}

// FindPostedLinesByAccount retrieves lines of posted journals touching the
// account within the inclusive date window, with journal date and memo
// denormalized onto each line.
func (r *PgxJournalRepository) FindPostedLinesByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.JournalLine, error) {
	query := `
		SELECT jl.line_id, jl.journal_id, jl.account_id, jl.description, jl.debit, jl.credit,
			jl.created_at, jl.created_by, jl.last_updated_at, jl.last_updated_by,
			j.journal_date, j.memo
		FROM journal_lines jl
		JOIN journals j ON j.journal_id = jl.journal_id
		WHERE jl.account_id = $1
			AND j.status = 'POSTED'
			AND j.is_deleted = FALSE
			AND j.journal_date BETWEEN $2 AND $3
		ORDER BY j.journal_date, jl.created_at;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query posted lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var m models.JournalLine
		var journalDate time.Time
		var memo string
		err := rows.Scan(
			&m.LineID, &m.JournalID, &m.AccountID, &m.Description, &m.Debit, &m.Credit,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
			&journalDate, &memo,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan posted line row: %w", err)
		}
		line := mapping.ToDomainJournalLine(m)
		line.JournalDate = journalDate
		line.JournalMemo = memo
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ReplaceJournalLines updates the journal header and wholesale-replaces its
// lines in one transaction.
func (r *PgxJournalRepository) ReplaceJournalLines(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournal(journal)
	tag, err := tx.Exec(ctx, `
		UPDATE journals
		SET memo = $2, journal_date = $3, reference_number = $4, total_debits = $5, total_credits = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE journal_id = $1 AND is_deleted = FALSE;
	`, m.JournalID, m.Memo, m.JournalDate, m.ReferenceNumber, m.TotalDebits, m.TotalCredits, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update journal %s: %w", m.JournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal %s not found", m.JournalID))
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, m.JournalID); err != nil {
		return fmt.Errorf("failed to clear lines for journal %s: %w", m.JournalID, err)
	}

	batch := &pgx.Batch{}
	queueInsertLines(batch, mapping.ToModelJournalLineSlice(lines))
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines for journal %s: %w", m.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateJournalStatus moves a journal from the expected lifecycle status to
// the given one. The status predicate makes the transition safe under
// concurrent callers: whoever loses the race affects zero rows.
func (r *PgxJournalRepository) UpdateJournalStatus(ctx context.Context, journalID string, from, to domain.JournalStatus, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $1 AND is_deleted = FALSE AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, journalID, to, updatedAt, updatedByUserID, from)
	if err != nil {
		return fmt.Errorf("failed to update status of journal %s: %w", journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s is not %s", apperrors.ErrConflict, journalID, from)
	}
	return nil
}

// SaveReversal persists the reversing journal with its lines, marks the
// original REVERSED, and links both directions in one transaction. The
// original must still be POSTED and unreversed; anything else aborts.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversing domain.Journal, lines []domain.JournalLine, originalJournalID string, updatedByUserID string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE journals
		SET status = 'REVERSED', reversed_by_journal_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $1 AND is_deleted = FALSE AND status = 'POSTED' AND reversed_by_journal_id IS NULL;
	`, originalJournalID, reversing.JournalID, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to mark journal %s reversed: %w", originalJournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s is not posted or is already reversed", apperrors.ErrConflict, originalJournalID)
	}

	batch := &pgx.Batch{}
	queueInsertJournal(batch, mapping.ToModelJournal(reversing))
	queueInsertLines(batch, mapping.ToModelJournalLineSlice(lines))
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to save reversing journal %s: %w", reversing.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// SoftDeleteJournal marks a journal deleted without removing rows.
func (r *PgxJournalRepository) SoftDeleteJournal(ctx context.Context, journalID string, deletedByUserID string, deletedAt time.Time) error {
	query := `
		UPDATE journals
		SET is_deleted = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE journal_id = $1 AND is_deleted = FALSE;
	`
	tag, err := r.Pool.Exec(ctx, query, journalID, deletedAt, deletedByUserID)
	if err != nil {
		return fmt.Errorf("failed to delete journal %s: %w", journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal %s not found", journalID))
	}
	return nil
}
