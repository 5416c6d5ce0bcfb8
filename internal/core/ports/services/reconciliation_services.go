package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// ReconciliationSvcFacade exposes the reconciliation session state machine.
type ReconciliationSvcFacade interface {
	CreateSession(ctx context.Context, req dto.CreateReconciliationSessionRequest, creatorUserID string) (*domain.ReconciliationSession, error)
	GetSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error)
	ListSessionsByBankAccount(ctx context.Context, bankAccountID string) ([]domain.ReconciliationSession, error)
	UpdateSession(ctx context.Context, sessionID string, req dto.UpdateReconciliationSessionRequest, userID string) (*domain.ReconciliationSession, error)
	CompleteSession(ctx context.Context, sessionID string, userID string) (*domain.ReconciliationSession, error)
	ReopenSession(ctx context.Context, sessionID string, userID string) (*domain.ReconciliationSession, error)

	// SuggestMatches proposes book-side candidates for the session's unmatched
	// bank transactions. Suggestions only; confirming a match stays with the caller.
	SuggestMatches(ctx context.Context, sessionID string) ([]domain.MatchSuggestion, error)
}
