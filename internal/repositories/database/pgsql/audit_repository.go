package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

type PgxAuditEventRepository struct {
	BaseRepository
}

// newPgxAuditEventRepository creates a new repository for the audit trail.
func newPgxAuditEventRepository(pool *pgxpool.Pool) portsrepo.AuditEventRepository {
	return &PgxAuditEventRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditEventRepository = (*PgxAuditEventRepository)(nil)

// AppendAuditEvent inserts one audit trail row. The table is append-only;
// there is deliberately no update or delete path.
func (r *PgxAuditEventRepository) AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	m := mapping.ToModelAuditEvent(event)
	query := `
		INSERT INTO audit_events (audit_event_id, journal_id, action, performed_by, performed_at, before_state, after_state)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AuditEventID, m.JournalID, m.Action, m.PerformedBy, m.PerformedAt, m.BeforeState, m.AfterState,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit event for journal %s: %w", m.JournalID, err)
	}
	return nil
}

// ListAuditEventsByJournal retrieves a journal's trail, oldest first.
func (r *PgxAuditEventRepository) ListAuditEventsByJournal(ctx context.Context, journalID string) ([]domain.AuditEvent, error) {
	query := `
		SELECT audit_event_id, journal_id, action, performed_by, performed_at, before_state, after_state
		FROM audit_events
		WHERE journal_id = $1
		ORDER BY performed_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events for journal %s: %w", journalID, err)
	}
	defer rows.Close()

	var events []models.AuditEvent
	for rows.Next() {
		var m models.AuditEvent
		if err := rows.Scan(&m.AuditEventID, &m.JournalID, &m.Action, &m.PerformedBy, &m.PerformedAt, &m.BeforeState, &m.AfterState); err != nil {
			return nil, fmt.Errorf("failed to scan audit event row: %w", err)
		}
		events = append(events, m)
	}
	return mapping.ToDomainAuditEventSlice(events), rows.Err()
}
