package repositories

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// StatementRepository persists write-once statement dedup records.
type StatementRepository interface {
	// FindStatementRecord retrieves the exact (account, statement number, user) record.
	FindStatementRecord(ctx context.Context, accountID, statementNumber, userID string) (*domain.StatementRecord, error)

	// InsertStatementRecord inserts the record if absent and returns the stored
	// row either way (idempotent insert).
	InsertStatementRecord(ctx context.Context, record domain.StatementRecord) (*domain.StatementRecord, error)

	// FindByStatementNumber retrieves a user's records with the exact statement number.
	FindByStatementNumber(ctx context.Context, statementNumber, userID string) ([]domain.StatementRecord, error)

	// FindByLastFour retrieves a user's records matching the card/account last four digits.
	FindByLastFour(ctx context.Context, lastFour, userID string) ([]domain.StatementRecord, error)
}
