package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/finbooks/finbooks_backend/internal/utils/matching"
)

// Match scoring weights. Amount equality is a hard filter; proximity in time
// and description similarity rank the survivors.
const (
	matchAmountWeight      = 0.5
	matchDateWeight        = 0.3
	matchDescriptionWeight = 0.2
	matchDateHorizonDays   = 7.0
	minSuggestionScore     = 0.5
)

// reconciliationService drives the reconciliation session state machine.
type reconciliationService struct {
	reconciliationRepo portsrepo.ReconciliationRepository
	bankRepo           portsrepo.BankRepositoryFacade
	journalRepo        portsrepo.JournalRepositoryFacade
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(reconciliationRepo portsrepo.ReconciliationRepository, bankRepo portsrepo.BankRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reconciliationRepo: reconciliationRepo,
		bankRepo:           bankRepo,
		journalRepo:        journalRepo,
	}
}

// Ensure reconciliationService implements the portssvc.ReconciliationSvcFacade interface
var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// CreateSession opens a pending reconciliation session for a bank account.
// At most one pending session may exist per bank account; a conflict returns
// the existing session's id.
func (s *reconciliationService) CreateSession(ctx context.Context, req dto.CreateReconciliationSessionRequest, creatorUserID string) (*domain.ReconciliationSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bankAccount, err := s.bankRepo.FindBankAccountByID(ctx, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	if !bankAccount.IsActive {
		return nil, fmt.Errorf("%w: bank account %s is inactive", apperrors.ErrValidation, req.BankAccountID)
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: session end date is before its start date", apperrors.ErrValidation)
	}

	now := time.Now()
	session := domain.ReconciliationSession{
		SessionID:            uuid.NewString(),
		BankAccountID:        req.BankAccountID,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		BankStatementBalance: req.BankStatementBalance,
		Status:               domain.ReconciliationPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.reconciliationRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	logger.Info("Reconciliation session created",
		slog.String("session_id", session.SessionID),
		slog.String("bank_account_id", req.BankAccountID),
	)
	return &session, nil
}

// GetSessionByID retrieves a session by its id.
func (s *reconciliationService) GetSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	return s.reconciliationRepo.FindSessionByID(ctx, sessionID)
}

// ListSessionsByBankAccount retrieves the session history of a bank account.
func (s *reconciliationService) ListSessionsByBankAccount(ctx context.Context, bankAccountID string) ([]domain.ReconciliationSession, error) {
	if _, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID); err != nil {
		return nil, err
	}
	return s.reconciliationRepo.ListSessionsByBankAccount(ctx, bankAccountID)
}

// UpdateSession revises the window of a pending session.
func (s *reconciliationService) UpdateSession(ctx context.Context, sessionID string, req dto.UpdateReconciliationSessionRequest, userID string) (*domain.ReconciliationSession, error) {
	session, err := s.reconciliationRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.ReconciliationPending {
		return nil, fmt.Errorf("%w: session %s is %s and cannot be edited", apperrors.ErrConflict, sessionID, session.Status)
	}

	endDate := session.EndDate
	if req.EndDate != nil {
		endDate = *req.EndDate
	}
	if endDate.Before(session.StartDate) {
		return nil, fmt.Errorf("%w: session end date is before its start date", apperrors.ErrValidation)
	}
	balance := session.BankStatementBalance
	if req.BankStatementBalance != nil {
		balance = *req.BankStatementBalance
	}

	now := time.Now()
	if err := s.reconciliationRepo.UpdateSessionWindow(ctx, sessionID, endDate, balance, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	session.EndDate = endDate
	session.BankStatementBalance = balance
	session.LastUpdatedAt = now
	session.LastUpdatedBy = userID
	return session, nil
}

// CompleteSession closes a pending session. Every bank transaction in the
// window must be matched or cleared; completion stamps the bank account's
// last reconciled date.
func (s *reconciliationService) CompleteSession(ctx context.Context, sessionID string, userID string) (*domain.ReconciliationSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.reconciliationRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransition(domain.ReconciliationCompleted) {
		return nil, fmt.Errorf("%w: session %s cannot be completed from status %s", apperrors.ErrConflict, sessionID, session.Status)
	}

	unmatched, err := s.bankRepo.CountUnmatched(ctx, session.BankAccountID, session.StartDate, session.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to count unmatched transactions: %w", err)
	}
	if unmatched > 0 {
		return nil, fmt.Errorf("%w: %d unmatched bank transactions remain in the session window", apperrors.ErrConflict, unmatched)
	}

	now := time.Now()
	if err := s.reconciliationRepo.CompleteSession(ctx, sessionID, now, userID); err != nil {
		logger.Error("Failed to complete session", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	session.Status = domain.ReconciliationCompleted
	session.CompletedAt = &now
	session.LastUpdatedAt = now
	session.LastUpdatedBy = userID
	logger.Info("Reconciliation session completed", slog.String("session_id", sessionID))
	return session, nil
}

// ReopenSession moves a completed session to REOPENED for corrections.
func (s *reconciliationService) ReopenSession(ctx context.Context, sessionID string, userID string) (*domain.ReconciliationSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.reconciliationRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransition(domain.ReconciliationReopened) {
		return nil, fmt.Errorf("%w: session %s cannot be reopened from status %s", apperrors.ErrConflict, sessionID, session.Status)
	}

	now := time.Now()
	if err := s.reconciliationRepo.ReopenSession(ctx, sessionID, userID, now); err != nil {
		logger.Error("Failed to reopen session", slog.String("session_id", sessionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to reopen session: %w", err)
	}

	session.Status = domain.ReconciliationReopened
	session.LastUpdatedAt = now
	session.LastUpdatedBy = userID
	logger.Info("Reconciliation session reopened", slog.String("session_id", sessionID))
	return session, nil
}

// SuggestMatches pairs the session's unmatched bank transactions with
// candidate posted journal lines. The best candidate per transaction is
// returned; confirming a match stays with the caller.
func (s *reconciliationService) SuggestMatches(ctx context.Context, sessionID string) ([]domain.MatchSuggestion, error) {
	session, err := s.reconciliationRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	bankAccount, err := s.bankRepo.FindBankAccountByID(ctx, session.BankAccountID)
	if err != nil {
		return nil, err
	}

	unmatchedStatus := domain.TransactionUnmatched
	transactions, err := s.bankRepo.ListBankTransactions(ctx, session.BankAccountID, session.StartDate, session.EndDate, &unmatchedStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmatched transactions: %w", err)
	}
	if len(transactions) == 0 {
		return nil, nil
	}

	// Widen the book-side window by the date horizon so near-boundary entries
	// still surface.
	horizon := time.Duration(matchDateHorizonDays*24) * time.Hour
	candidates, err := s.journalRepo.FindPostedLinesByAccount(ctx, bankAccount.GLAccountID, session.StartDate.Add(-horizon), session.EndDate.Add(horizon))
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate journal lines: %w", err)
	}

	var suggestions []domain.MatchSuggestion
	for i := range transactions {
		if suggestion, ok := bestCandidate(&transactions[i], candidates); ok {
			suggestions = append(suggestions, suggestion)
		}
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	return suggestions, nil
}

func bestCandidate(txn *domain.BankTransaction, candidates []domain.JournalLine) (domain.MatchSuggestion, bool) {
	var best domain.MatchSuggestion
	found := false
	for i := range candidates {
		line := candidates[i]
		if !line.Amount().Equal(txn.Amount) {
			continue
		}
		// A GL debit on the bank-backed account is money in, i.e. a statement credit.
		if line.IsDebit() != (txn.Type == domain.BankCredit) {
			continue
		}
		score := scoreCandidate(txn, line)
		if score < minSuggestionScore {
			continue
		}
		if !found || score > best.Score {
			best = domain.MatchSuggestion{
				BankTransactionID: txn.BankTransactionID,
				JournalID:         line.JournalID,
				JournalLineID:     line.LineID,
				Amount:            txn.Amount,
				Score:             score,
			}
			found = true
		}
	}
	return best, found
}

func scoreCandidate(txn *domain.BankTransaction, line domain.JournalLine) float64 {
	days := txn.TransactionDate.Sub(line.JournalDate).Hours() / 24
	if days < 0 {
		days = -days
	}
	dateScore := 1 - days/matchDateHorizonDays
	if dateScore < 0 {
		dateScore = 0
	}

	description := line.Description
	if description == "" {
		description = line.JournalMemo
	}
	descScore := matching.DescriptionSimilarity(txn.Description, description)

	return matchAmountWeight + matchDateWeight*dateScore + matchDescriptionWeight*descScore
}
