package dto

import (
	"time"
)

// ProcessStatementRequest defines the payload for ingesting an externally
// issued statement. AccountID may be omitted when the caller does not know
// it; the service then re-identifies the account from statement number or
// last-four digits.
type ProcessStatementRequest struct {
	StatementNumber   string                      `json:"statementNumber" binding:"required"`
	StatementDate     time.Time                   `json:"statementDate" binding:"required"`
	LastFour          string                      `json:"lastFour" binding:"omitempty,len=4"`
	AccountID         *string                     `json:"accountID"`
	IsStartingBalance bool                        `json:"isStartingBalance"`
	BankAccountID     *string                     `json:"bankAccountID"`
	Transactions      []ImportBankTransactionItem `json:"transactions" binding:"omitempty,dive"`
}

// ProcessStatementResponse reports the outcome of statement ingestion.
type ProcessStatementResponse struct {
	AccountID        string `json:"accountID"`
	StatementRecord  string `json:"statementRecordID"`
	AlreadyProcessed bool   `json:"alreadyProcessed"`
	Imported         int    `json:"imported"`
}
