package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation sessions.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepository {
	return &PgxReconciliationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepository = (*PgxReconciliationRepository)(nil)

const sessionColumns = `session_id, bank_account_id, start_date, end_date, bank_statement_balance, status, completed_at, created_at, created_by, last_updated_at, last_updated_by`

func scanSession(row pgx.Row) (models.ReconciliationSession, error) {
	var m models.ReconciliationSession
	err := row.Scan(
		&m.SessionID,
		&m.BankAccountID,
		&m.StartDate,
		&m.EndDate,
		&m.BankStatementBalance,
		&m.Status,
		&m.CompletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreateSession inserts a pending session. The bank account row is locked for
// the duration of the check-then-insert, and a partial unique index backs the
// one-pending-session-per-account rule at the schema level.
func (r *PgxReconciliationRepository) CreateSession(ctx context.Context, session domain.ReconciliationSession) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var bankAccountID string
	err = tx.QueryRow(ctx, `SELECT bank_account_id FROM bank_accounts WHERE bank_account_id = $1 FOR UPDATE;`, session.BankAccountID).Scan(&bankAccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError(fmt.Sprintf("bank account %s not found", session.BankAccountID))
		}
		return fmt.Errorf("failed to lock bank account %s: %w", session.BankAccountID, err)
	}

	var existingID string
	err = tx.QueryRow(ctx, `SELECT session_id FROM reconciliation_sessions WHERE bank_account_id = $1 AND status = 'PENDING';`, session.BankAccountID).Scan(&existingID)
	if err == nil {
		return &portsrepo.PendingSessionExistsError{ExistingSessionID: existingID}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check pending session for bank account %s: %w", session.BankAccountID, err)
	}

	m := mapping.ToModelReconciliationSession(session)
	_, err = tx.Exec(ctx, `
		INSERT INTO reconciliation_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`,
		m.SessionID, m.BankAccountID, m.StartDate, m.EndDate, m.BankStatementBalance,
		m.Status, m.CompletedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The partial unique index caught a race past the row lock. The
			// failed insert aborted the transaction, so read the winner's id
			// over a fresh connection to surface it to the caller.
			var winnerID string
			qErr := r.Pool.QueryRow(ctx, `SELECT session_id FROM reconciliation_sessions WHERE bank_account_id = $1 AND status = 'PENDING';`, session.BankAccountID).Scan(&winnerID)
			if qErr != nil {
				return fmt.Errorf("failed to create reconciliation session %s: %w", m.SessionID, err)
			}
			return &portsrepo.PendingSessionExistsError{ExistingSessionID: winnerID}
		}
		return fmt.Errorf("failed to create reconciliation session %s: %w", m.SessionID, err)
	}

	return r.Commit(ctx, tx)
}

// FindSessionByID retrieves a session by its id.
func (r *PgxReconciliationRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM reconciliation_sessions WHERE session_id = $1;`
	m, err := scanSession(r.Pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("reconciliation session %s not found", sessionID))
		}
		return nil, fmt.Errorf("failed to find reconciliation session %s: %w", sessionID, err)
	}
	session := mapping.ToDomainReconciliationSession(m)
	return &session, nil
}

// FindPendingSessionByBankAccount retrieves the at-most-one pending session
// of a bank account.
func (r *PgxReconciliationRepository) FindPendingSessionByBankAccount(ctx context.Context, bankAccountID string) (*domain.ReconciliationSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM reconciliation_sessions WHERE bank_account_id = $1 AND status = 'PENDING';`
	m, err := scanSession(r.Pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no pending session for bank account %s", bankAccountID))
		}
		return nil, fmt.Errorf("failed to find pending session for bank account %s: %w", bankAccountID, err)
	}
	session := mapping.ToDomainReconciliationSession(m)
	return &session, nil
}

// ListSessionsByBankAccount retrieves a bank account's sessions, newest first.
func (r *PgxReconciliationRepository) ListSessionsByBankAccount(ctx context.Context, bankAccountID string) ([]domain.ReconciliationSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM reconciliation_sessions WHERE bank_account_id = $1 ORDER BY start_date DESC, created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for bank account %s: %w", bankAccountID, err)
	}
	defer rows.Close()

	var sessions []models.ReconciliationSession
	for rows.Next() {
		m, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, m)
	}
	return mapping.ToDomainReconciliationSessionSlice(sessions), rows.Err()
}

// UpdateSessionWindow revises end date and statement balance of a pending session.
func (r *PgxReconciliationRepository) UpdateSessionWindow(ctx context.Context, sessionID string, endDate time.Time, statementBalance decimal.Decimal, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE reconciliation_sessions
		SET end_date = $2, bank_statement_balance = $3, last_updated_at = $4, last_updated_by = $5
		WHERE session_id = $1 AND status = 'PENDING';
	`
	tag, err := r.Pool.Exec(ctx, query, sessionID, endDate, statementBalance, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", sessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %s is not pending", apperrors.ErrConflict, sessionID)
	}
	return nil
}

// CompleteSession marks the session completed and stamps the bank account's
// last_reconciled_date with the session end date in one transaction.
func (r *PgxReconciliationRepository) CompleteSession(ctx context.Context, sessionID string, completedAt time.Time, updatedByUserID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var bankAccountID string
	var endDate time.Time
	err = tx.QueryRow(ctx, `
		UPDATE reconciliation_sessions
		SET status = 'COMPLETED', completed_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE session_id = $1 AND status = 'PENDING'
		RETURNING bank_account_id, end_date;
	`, sessionID, completedAt, updatedByUserID).Scan(&bankAccountID, &endDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: session %s is not pending", apperrors.ErrConflict, sessionID)
		}
		return fmt.Errorf("failed to complete session %s: %w", sessionID, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE bank_accounts
		SET last_reconciled_date = $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1;
	`, bankAccountID, endDate, completedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to stamp last reconciled date for bank account %s: %w", bankAccountID, err)
	}

	return r.Commit(ctx, tx)
}

// ReopenSession moves a completed session to REOPENED.
func (r *PgxReconciliationRepository) ReopenSession(ctx context.Context, sessionID string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE reconciliation_sessions
		SET status = 'REOPENED', last_updated_at = $2, last_updated_by = $3
		WHERE session_id = $1 AND status = 'COMPLETED';
	`
	tag, err := r.Pool.Exec(ctx, query, sessionID, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to reopen session %s: %w", sessionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: session %s is not completed", apperrors.ErrConflict, sessionID)
	}
	return nil
}
