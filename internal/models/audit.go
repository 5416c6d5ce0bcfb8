package models

import "time"

// AuditAction identifies the journal lifecycle transition being recorded.
type AuditAction string

const (
	AuditPost    AuditAction = "POST"
	AuditUpdate  AuditAction = "UPDATE"
	AuditDelete  AuditAction = "DELETE"
	AuditUnpost  AuditAction = "UNPOST"
	AuditReverse AuditAction = "REVERSE"
)

// AuditEvent is an append-only record of a journal lifecycle transition.
type AuditEvent struct {
	AuditEventID string      `db:"audit_event_id"`
	JournalID    string      `db:"journal_id"`
	Action       AuditAction `db:"action"`
	PerformedBy  string      `db:"performed_by"`
	PerformedAt  time.Time   `db:"performed_at"`
	BeforeState  []byte      `db:"before_state"` // JSON snapshot, nullable
	AfterState   []byte      `db:"after_state"`  // JSON snapshot, nullable
}
