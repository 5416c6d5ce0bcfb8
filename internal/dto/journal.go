package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest defines one line of a journal create/update payload.
// Exactly one of debit/credit must be nonzero; the service enforces it.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// CreateJournalRequest defines the payload for creating a draft journal.
type CreateJournalRequest struct {
	Date            time.Time            `json:"date" binding:"required"`
	Memo            string               `json:"memo" binding:"required"`
	ReferenceNumber string               `json:"referenceNumber"`
	Lines           []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateJournalRequest defines the payload for updating a draft journal.
// Lines, when present, replace the journal's lines wholesale.
type UpdateJournalRequest struct {
	Date            *time.Time           `json:"date"`
	Memo            *string              `json:"memo"`
	ReferenceNumber *string              `json:"referenceNumber"`
	Lines           []JournalLineRequest `json:"lines"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID           string                `json:"journalID"`
	Date                time.Time             `json:"date"`
	Memo                string                `json:"memo"`
	Source              string                `json:"source"`
	ReferenceNumber     string                `json:"referenceNumber,omitempty"`
	Status              string                `json:"status"`
	ReversalOfJournalID *string               `json:"reversalOfJournalID,omitempty"`
	ReversedByJournalID *string               `json:"reversedByJournalID,omitempty"`
	TotalDebits         decimal.Decimal       `json:"totalDebits"`
	TotalCredits        decimal.Decimal       `json:"totalCredits"`
	Lines               []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	CreatedBy           string                `json:"createdBy"`
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	Limit            int
	NextToken        *string
	IncludeReversals bool
	IncludeLines     bool
}

// ListJournalsResponse is the paginated journal list payload.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// LockPeriodRequest defines the payload for closing an accounting period.
type LockPeriodRequest struct {
	// Period is the accounting month in YYYY-MM form.
	Period string `json:"period" binding:"required,period"`
}

// ToJournalLineResponse converts a domain.JournalLine.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      l.LineID,
		AccountID:   l.AccountID,
		Description: l.Description,
		Debit:       l.Debit,
		Credit:      l.Credit,
	}
}

// ToJournalResponse converts a domain.Journal, including lines when loaded.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:           j.JournalID,
		Date:                j.JournalDate,
		Memo:                j.Memo,
		Source:              j.Source,
		ReferenceNumber:     j.ReferenceNumber,
		Status:              string(j.Status),
		ReversalOfJournalID: j.ReversalOfJournalID,
		ReversedByJournalID: j.ReversedByJournalID,
		TotalDebits:         j.TotalDebits,
		TotalCredits:        j.TotalCredits,
		CreatedAt:           j.CreatedAt,
		CreatedBy:           j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i := range j.Lines {
			resp.Lines[i] = ToJournalLineResponse(&j.Lines[i])
		}
	}
	return resp
}
