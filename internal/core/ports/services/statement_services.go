package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// StatementSvcFacade exposes the statement deduplication tracker.
type StatementSvcFacade interface {
	// IsProcessed reports whether the exact (account, statement number, user)
	// record exists. Statements numbered "unknown" never count as processed.
	IsProcessed(ctx context.Context, accountID, statementNumber, userID string) (bool, error)

	// RecordStatement stores the dedup marker; idempotent on repeats.
	RecordStatement(ctx context.Context, record domain.StatementRecord) (*domain.StatementRecord, error)

	// FindByIdentifiers re-identifies an account from a statement number, falling
	// back to the last-four-digits match.
	FindByIdentifiers(ctx context.Context, statementNumber, lastFour, userID string) (*domain.StatementRecord, error)

	// ProcessStatement is the ingestion boundary: identify the account, dedup,
	// record, and optionally import the statement's transactions.
	ProcessStatement(ctx context.Context, req dto.ProcessStatementRequest, userID string) (*dto.ProcessStatementResponse, error)
}
