package domain

import "time"

// StatementRecord is a write-once idempotence marker for an externally issued
// bank or credit-card statement. Keyed by (account, statement number, user);
// never mutated after insertion.
type StatementRecord struct {
	StatementRecordID string    `json:"statementRecordID"`
	AccountID         string    `json:"accountID"`
	StatementNumber   string    `json:"statementNumber"`
	StatementDate     time.Time `json:"statementDate"`
	LastFour          string    `json:"lastFour"`
	IsStartingBalance bool      `json:"isStartingBalance"`
	UserID            string    `json:"userID"`
	CreatedAt         time.Time `json:"createdAt"`
}

// UnknownStatementNumber marks statements whose number could not be parsed.
// Records carrying it never count as "already processed".
const UnknownStatementNumber = "unknown"
