package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelReconciliationSession converts a domain ReconciliationSession to a model ReconciliationSession
func ToModelReconciliationSession(d domain.ReconciliationSession) models.ReconciliationSession {
	return models.ReconciliationSession{
		SessionID:            d.SessionID,
		BankAccountID:        d.BankAccountID,
		StartDate:            d.StartDate,
		EndDate:              d.EndDate,
		BankStatementBalance: d.BankStatementBalance,
		Status:               models.ReconciliationStatus(d.Status),
		CompletedAt:          d.CompletedAt,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReconciliationSession converts a model ReconciliationSession to a domain ReconciliationSession
func ToDomainReconciliationSession(m models.ReconciliationSession) domain.ReconciliationSession {
	return domain.ReconciliationSession{
		SessionID:            m.SessionID,
		BankAccountID:        m.BankAccountID,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		BankStatementBalance: m.BankStatementBalance,
		Status:               domain.ReconciliationStatus(m.Status),
		CompletedAt:          m.CompletedAt,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReconciliationSessionSlice converts a slice of model sessions to domain sessions
func ToDomainReconciliationSessionSlice(ms []models.ReconciliationSession) []domain.ReconciliationSession {
	ds := make([]domain.ReconciliationSession, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReconciliationSession(m)
	}
	return ds
}
