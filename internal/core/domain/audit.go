package domain

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
// BeforeState/AfterState carry JSON snapshots of the journal header and lines.
type AuditEvent struct {
	AuditEventID string      `json:"auditEventID"`
	JournalID    string      `json:"journalID"`
	Action       AuditAction `json:"action"`
	PerformedBy  string      `json:"performedBy"`
	PerformedAt  time.Time   `json:"performedAt"`
	BeforeState  []byte      `json:"beforeState,omitempty"`
	AfterState   []byte      `json:"afterState,omitempty"`
}
