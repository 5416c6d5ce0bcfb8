package repositories

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// AuditEventRepository is the append-only audit trail sink.
type AuditEventRepository interface {
	AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error
	ListAuditEventsByJournal(ctx context.Context, journalID string) ([]domain.AuditEvent, error)
}
