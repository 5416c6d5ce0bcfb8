package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:           d.JournalID,
		Memo:                d.Memo,
		JournalDate:         d.JournalDate,
		Source:              d.Source,
		ReferenceNumber:     d.ReferenceNumber,
		Status:              models.JournalStatus(d.Status),
		IsDeleted:           d.IsDeleted,
		ReversalOfJournalID: d.ReversalOfJournalID,
		ReversedByJournalID: d.ReversedByJournalID,
		TotalDebits:         d.TotalDebits,
		TotalCredits:        d.TotalCredits,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal. Lines are
// loaded separately and attached by the caller when needed.
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:           m.JournalID,
		Memo:                m.Memo,
		JournalDate:         m.JournalDate,
		Source:              m.Source,
		ReferenceNumber:     m.ReferenceNumber,
		Status:              domain.JournalStatus(m.Status),
		IsDeleted:           m.IsDeleted,
		ReversalOfJournalID: m.ReversalOfJournalID,
		ReversedByJournalID: m.ReversedByJournalID,
		TotalDebits:         m.TotalDebits,
		TotalCredits:        m.TotalCredits,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalSlice converts a slice of model Journals to a slice of domain Journals
func ToDomainJournalSlice(ms []models.Journal) []domain.Journal {
	ds := make([]domain.Journal, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournal(m)
	}
	return ds
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		JournalID:   d.JournalID,
		AccountID:   d.AccountID,
		Description: d.Description,
		Debit:       d.Debit,
		Credit:      d.Credit,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		JournalID:   m.JournalID,
		AccountID:   m.AccountID,
		Description: m.Description,
		Debit:       m.Debit,
		Credit:      m.Credit,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLineSlice converts a slice of domain JournalLines to model JournalLines
func ToModelJournalLineSlice(ds []domain.JournalLine) []models.JournalLine {
	ms := make([]models.JournalLine, len(ds))
	for i, d := range ds {
		ms[i] = ToModelJournalLine(d)
	}
	return ms
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}

// ToModelPeriodLock converts a domain PeriodLock to a model PeriodLock
func ToModelPeriodLock(d domain.PeriodLock) models.PeriodLock {
	return models.PeriodLock{
		Period:   d.Period,
		LockedBy: d.LockedBy,
		LockedAt: d.LockedAt,
	}
}

// ToDomainPeriodLock converts a model PeriodLock to a domain PeriodLock
func ToDomainPeriodLock(m models.PeriodLock) domain.PeriodLock {
	return domain.PeriodLock{
		Period:   m.Period,
		LockedBy: m.LockedBy,
		LockedAt: m.LockedAt,
	}
}
