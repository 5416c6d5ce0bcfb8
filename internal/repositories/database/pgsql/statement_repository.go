package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

type PgxStatementRepository struct {
	BaseRepository
}

// newPgxStatementRepository creates a new repository for statement dedup records.
func newPgxStatementRepository(pool *pgxpool.Pool) portsrepo.StatementRepository {
	return &PgxStatementRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.StatementRepository = (*PgxStatementRepository)(nil)

const statementColumns = `statement_record_id, account_id, statement_number, statement_date, last_four, is_starting_balance, user_id, created_at`

func scanStatementRecord(row pgx.Row) (models.StatementRecord, error) {
	var m models.StatementRecord
	err := row.Scan(
		&m.StatementRecordID,
		&m.AccountID,
		&m.StatementNumber,
		&m.StatementDate,
		&m.LastFour,
		&m.IsStartingBalance,
		&m.UserID,
		&m.CreatedAt,
	)
	return m, err
}

// FindStatementRecord retrieves the exact (account, statement number, user) record.
func (r *PgxStatementRepository) FindStatementRecord(ctx context.Context, accountID, statementNumber, userID string) (*domain.StatementRecord, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statement_records
		WHERE account_id = $1 AND statement_number = $2 AND user_id = $3
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanStatementRecord(r.Pool.QueryRow(ctx, query, accountID, statementNumber, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("statement record not found")
		}
		return nil, fmt.Errorf("failed to find statement record: %w", err)
	}
	record := mapping.ToDomainStatementRecord(m)
	return &record, nil
}

// InsertStatementRecord inserts the record if absent and returns the stored
// row either way. Statements numbered "unknown" are never deduplicated, so
// they always insert fresh rows.
func (r *PgxStatementRepository) InsertStatementRecord(ctx context.Context, record domain.StatementRecord) (*domain.StatementRecord, error) {
	m := mapping.ToModelStatementRecord(record)

	if m.StatementNumber == domain.UnknownStatementNumber {
		query := `
			INSERT INTO statement_records (` + statementColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`
		_, err := r.Pool.Exec(ctx, query,
			m.StatementRecordID, m.AccountID, m.StatementNumber, m.StatementDate,
			m.LastFour, m.IsStartingBalance, m.UserID, m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert statement record: %w", err)
		}
		return &record, nil
	}

	// The ON CONFLICT target matches the partial unique index on
	// (account_id, statement_number, user_id).
	query := `
		INSERT INTO statement_records (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (account_id, statement_number, user_id) WHERE statement_number <> 'unknown'
		DO NOTHING
		RETURNING ` + statementColumns + `;
	`
	stored, err := scanStatementRecord(r.Pool.QueryRow(ctx, query,
		m.StatementRecordID, m.AccountID, m.StatementNumber, m.StatementDate,
		m.LastFour, m.IsStartingBalance, m.UserID, m.CreatedAt,
	))
	if err == nil {
		result := mapping.ToDomainStatementRecord(stored)
		return &result, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to insert statement record: %w", err)
	}

	// Conflict: the record already exists, return it.
	return r.FindStatementRecord(ctx, record.AccountID, record.StatementNumber, record.UserID)
}

// FindByStatementNumber retrieves a user's records with the exact statement
// number, newest first.
func (r *PgxStatementRepository) FindByStatementNumber(ctx context.Context, statementNumber, userID string) ([]domain.StatementRecord, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statement_records
		WHERE statement_number = $1 AND user_id = $2
		ORDER BY created_at DESC;
	`
	return r.queryRecords(ctx, query, statementNumber, userID)
}

// FindByLastFour retrieves a user's records matching the card/account last
// four digits, newest first.
func (r *PgxStatementRepository) FindByLastFour(ctx context.Context, lastFour, userID string) ([]domain.StatementRecord, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM statement_records
		WHERE last_four = $1 AND user_id = $2
		ORDER BY created_at DESC;
	`
	return r.queryRecords(ctx, query, lastFour, userID)
}

func (r *PgxStatementRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]domain.StatementRecord, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement records: %w", err)
	}
	defer rows.Close()

	var records []domain.StatementRecord
	for rows.Next() {
		m, err := scanStatementRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement record row: %w", err)
		}
		records = append(records, mapping.ToDomainStatementRecord(m))
	}
	return records, rows.Err()
}
