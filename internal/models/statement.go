package models

import "time"

// StatementRecord is a write-once idempotence marker for a processed statement.
type StatementRecord struct {
	StatementRecordID string    `db:"statement_record_id"`
	AccountID         string    `db:"account_id"`
	StatementNumber   string    `db:"statement_number"`
	StatementDate     time.Time `db:"statement_date"`
	LastFour          string    `db:"last_four"`
	IsStartingBalance bool      `db:"is_starting_balance"`
	UserID            string    `db:"user_id"`
	CreatedAt         time.Time `db:"created_at"`
}
