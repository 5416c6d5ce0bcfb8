package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateReconciliationSessionRequest defines the payload for starting a session.
type CreateReconciliationSessionRequest struct {
	BankAccountID        string          `json:"bankAccountID" binding:"required"`
	StartDate            time.Time       `json:"startDate" binding:"required"`
	EndDate              time.Time       `json:"endDate" binding:"required"`
	BankStatementBalance decimal.Decimal `json:"bankStatementBalance"`
}

// UpdateReconciliationSessionRequest revises a pending session's window.
type UpdateReconciliationSessionRequest struct {
	EndDate              *time.Time       `json:"endDate"`
	BankStatementBalance *decimal.Decimal `json:"bankStatementBalance"`
}

// ReconciliationSessionResponse defines the data returned for a session.
type ReconciliationSessionResponse struct {
	SessionID            string          `json:"sessionID"`
	BankAccountID        string          `json:"bankAccountID"`
	StartDate            time.Time       `json:"startDate"`
	EndDate              time.Time       `json:"endDate"`
	BankStatementBalance decimal.Decimal `json:"bankStatementBalance"`
	Status               string          `json:"status"`
	CompletedAt          *time.Time      `json:"completedAt,omitempty"`
	CreatedBy            string          `json:"createdBy"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// MatchSuggestionResponse pairs an unmatched bank transaction with a candidate journal line.
type MatchSuggestionResponse struct {
	BankTransactionID string          `json:"bankTransactionID"`
	JournalID         string          `json:"journalID"`
	JournalLineID     string          `json:"journalLineID"`
	Amount            decimal.Decimal `json:"amount"`
	Score             float64         `json:"score"`
}

// ToReconciliationSessionResponse converts a domain.ReconciliationSession.
func ToReconciliationSessionResponse(s *domain.ReconciliationSession) ReconciliationSessionResponse {
	return ReconciliationSessionResponse{
		SessionID:            s.SessionID,
		BankAccountID:        s.BankAccountID,
		StartDate:            s.StartDate,
		EndDate:              s.EndDate,
		BankStatementBalance: s.BankStatementBalance,
		Status:               string(s.Status),
		CompletedAt:          s.CompletedAt,
		CreatedBy:            s.CreatedBy,
		CreatedAt:            s.CreatedAt,
	}
}

// ToMatchSuggestionResponses converts domain match suggestions.
func ToMatchSuggestionResponses(suggestions []domain.MatchSuggestion) []MatchSuggestionResponse {
	responses := make([]MatchSuggestionResponse, len(suggestions))
	for i, s := range suggestions {
		responses[i] = MatchSuggestionResponse{
			BankTransactionID: s.BankTransactionID,
			JournalID:         s.JournalID,
			JournalLineID:     s.JournalLineID,
			Amount:            s.Amount,
			Score:             s.Score,
		}
	}
	return responses
}
