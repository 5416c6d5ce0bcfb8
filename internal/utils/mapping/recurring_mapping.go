package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelRecurringJournal converts a domain RecurringJournal to a model RecurringJournal
func ToModelRecurringJournal(d domain.RecurringJournal) models.RecurringJournal {
	return models.RecurringJournal{
		RecurringJournalID: d.RecurringJournalID,
		TemplateJournalID:  d.TemplateJournalID,
		Frequency:          models.RecurringFrequency(d.Frequency),
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		DayOfMonth:         d.DayOfMonth,
		DayOfWeek:          d.DayOfWeek,
		LastGenerated:      d.LastGenerated,
		IsActive:           d.IsActive,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurringJournal converts a model RecurringJournal to a domain RecurringJournal
func ToDomainRecurringJournal(m models.RecurringJournal) domain.RecurringJournal {
	return domain.RecurringJournal{
		RecurringJournalID: m.RecurringJournalID,
		TemplateJournalID:  m.TemplateJournalID,
		Frequency:          domain.RecurringFrequency(m.Frequency),
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		DayOfMonth:         m.DayOfMonth,
		DayOfWeek:          m.DayOfWeek,
		LastGenerated:      m.LastGenerated,
		IsActive:           m.IsActive,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainRecurringJournalSlice converts a slice of model RecurringJournals to domain RecurringJournals
func ToDomainRecurringJournalSlice(ms []models.RecurringJournal) []domain.RecurringJournal {
	ds := make([]domain.RecurringJournal, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRecurringJournal(m)
	}
	return ds
}
