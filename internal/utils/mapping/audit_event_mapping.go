package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelAuditEvent converts a domain AuditEvent to a model AuditEvent
func ToModelAuditEvent(d domain.AuditEvent) models.AuditEvent {
	return models.AuditEvent{
		AuditEventID: d.AuditEventID,
		JournalID:    d.JournalID,
		Action:       models.AuditAction(d.Action),
		PerformedBy:  d.PerformedBy,
		PerformedAt:  d.PerformedAt,
		BeforeState:  d.BeforeState,
		AfterState:   d.AfterState,
	}
}

// ToDomainAuditEvent converts a model AuditEvent to a domain AuditEvent
func ToDomainAuditEvent(m models.AuditEvent) domain.AuditEvent {
	return domain.AuditEvent{
		AuditEventID: m.AuditEventID,
		JournalID:    m.JournalID,
		Action:       domain.AuditAction(m.Action),
		PerformedBy:  m.PerformedBy,
		PerformedAt:  m.PerformedAt,
		BeforeState:  m.BeforeState,
		AfterState:   m.AfterState,
	}
}

// ToDomainAuditEventSlice converts a slice of model AuditEvents to domain AuditEvents
func ToDomainAuditEventSlice(ms []models.AuditEvent) []domain.AuditEvent {
	ds := make([]domain.AuditEvent, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditEvent(m)
	}
	return ds
}
