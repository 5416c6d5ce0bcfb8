package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PendingSessionExistsError is returned when a bank account already has a
// pending reconciliation session. It carries the existing session id so the
// caller can redirect instead of retrying blindly.
type PendingSessionExistsError struct {
	ExistingSessionID string
}

func (e *PendingSessionExistsError) Error() string {
	return fmt.Sprintf("a pending reconciliation session already exists: %s", e.ExistingSessionID)
}

// Is makes the error match apperrors.ErrConflict under errors.Is.
func (e *PendingSessionExistsError) Is(target error) bool {
	return target == apperrors.ErrConflict
}

// ReconciliationRepository persists reconciliation sessions. Creation and
// completion are transactional with their invariant checks.
type ReconciliationRepository interface {
	// CreateSession inserts a pending session. It locks the bank account row and
	// returns *PendingSessionExistsError if a pending session already exists.
	CreateSession(ctx context.Context, session domain.ReconciliationSession) error

	FindSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error)

	FindPendingSessionByBankAccount(ctx context.Context, bankAccountID string) (*domain.ReconciliationSession, error)

	ListSessionsByBankAccount(ctx context.Context, bankAccountID string) ([]domain.ReconciliationSession, error)

	// UpdateSessionWindow revises end date and statement balance of a pending session.
	UpdateSessionWindow(ctx context.Context, sessionID string, endDate time.Time, statementBalance decimal.Decimal, updatedByUserID string, updatedAt time.Time) error

	// CompleteSession marks the session completed and stamps the bank account's
	// last_reconciled_date with the session end date in one transaction.
	CompleteSession(ctx context.Context, sessionID string, completedAt time.Time, updatedByUserID string) error

	// ReopenSession moves a completed session to REOPENED.
	ReopenSession(ctx context.Context, sessionID string, updatedByUserID string, updatedAt time.Time) error
}
