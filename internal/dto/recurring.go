package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CreateRecurringJournalRequest defines the payload for creating a schedule.
type CreateRecurringJournalRequest struct {
	TemplateJournalID string                    `json:"templateJournalID" binding:"required"`
	Frequency         domain.RecurringFrequency `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY"`
	StartDate         time.Time                 `json:"startDate" binding:"required"`
	EndDate           *time.Time                `json:"endDate"`
	DayOfMonth        *int                      `json:"dayOfMonth" binding:"omitempty,min=0,max=31"`
	DayOfWeek         *int                      `json:"dayOfWeek" binding:"omitempty,min=0,max=6"`
}

// PatchRecurringJournalRequest mirrors domain.RecurringJournalPatch for the API.
type PatchRecurringJournalRequest struct {
	Frequency  *domain.RecurringFrequency `json:"frequency" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY"`
	StartDate  *time.Time                 `json:"startDate"`
	EndDate    *time.Time                 `json:"endDate"`
	DayOfMonth *int                       `json:"dayOfMonth" binding:"omitempty,min=0,max=31"`
	DayOfWeek  *int                       `json:"dayOfWeek" binding:"omitempty,min=0,max=6"`
	IsActive   *bool                      `json:"isActive"`
}

// ToPatch converts the request into the domain allow-list patch.
func (r PatchRecurringJournalRequest) ToPatch() domain.RecurringJournalPatch {
	return domain.RecurringJournalPatch{
		Frequency:  r.Frequency,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		DayOfMonth: r.DayOfMonth,
		DayOfWeek:  r.DayOfWeek,
		IsActive:   r.IsActive,
	}
}

// RecurringJournalResponse defines the data returned for a schedule.
type RecurringJournalResponse struct {
	RecurringJournalID string     `json:"recurringJournalID"`
	TemplateJournalID  string     `json:"templateJournalID"`
	Frequency          string     `json:"frequency"`
	StartDate          time.Time  `json:"startDate"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	DayOfMonth         *int       `json:"dayOfMonth,omitempty"`
	DayOfWeek          *int       `json:"dayOfWeek,omitempty"`
	LastGenerated      *time.Time `json:"lastGenerated,omitempty"`
	IsActive           bool       `json:"isActive"`
}

// GenerateDueResponse reports how many journals a generation tick produced.
type GenerateDueResponse struct {
	Generated int `json:"generated"`
}

// ToRecurringJournalResponse converts a domain.RecurringJournal.
func ToRecurringJournalResponse(r *domain.RecurringJournal) RecurringJournalResponse {
	return RecurringJournalResponse{
		RecurringJournalID: r.RecurringJournalID,
		TemplateJournalID:  r.TemplateJournalID,
		Frequency:          string(r.Frequency),
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		DayOfMonth:         r.DayOfMonth,
		DayOfWeek:          r.DayOfWeek,
		LastGenerated:      r.LastGenerated,
		IsActive:           r.IsActive,
	}
}
