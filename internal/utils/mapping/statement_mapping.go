package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelStatementRecord converts a domain StatementRecord to a model StatementRecord
func ToModelStatementRecord(d domain.StatementRecord) models.StatementRecord {
	return models.StatementRecord{
		StatementRecordID: d.StatementRecordID,
		AccountID:         d.AccountID,
		StatementNumber:   d.StatementNumber,
		StatementDate:     d.StatementDate,
		LastFour:          d.LastFour,
		IsStartingBalance: d.IsStartingBalance,
		UserID:            d.UserID,
		CreatedAt:         d.CreatedAt,
	}
}

// ToDomainStatementRecord converts a model StatementRecord to a domain StatementRecord
func ToDomainStatementRecord(m models.StatementRecord) domain.StatementRecord {
	return domain.StatementRecord{
		StatementRecordID: m.StatementRecordID,
		AccountID:         m.AccountID,
		StatementNumber:   m.StatementNumber,
		StatementDate:     m.StatementDate,
		LastFour:          m.LastFour,
		IsStartingBalance: m.IsStartingBalance,
		UserID:            m.UserID,
		CreatedAt:         m.CreatedAt,
	}
}
