package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelBankAccount converts a domain BankAccount to a model BankAccount
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:      d.BankAccountID,
		Name:               d.Name,
		AccountNumber:      d.AccountNumber,
		InstitutionName:    d.InstitutionName,
		GLAccountID:        d.GLAccountID,
		IsActive:           d.IsActive,
		LastReconciledDate: d.LastReconciledDate,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:      m.BankAccountID,
		Name:               m.Name,
		AccountNumber:      m.AccountNumber,
		InstitutionName:    m.InstitutionName,
		GLAccountID:        m.GLAccountID,
		IsActive:           m.IsActive,
		LastReconciledDate: m.LastReconciledDate,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankAccountSlice converts a slice of model BankAccounts to domain BankAccounts
func ToDomainBankAccountSlice(ms []models.BankAccount) []domain.BankAccount {
	ds := make([]domain.BankAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankAccount(m)
	}
	return ds
}

// ToModelBankTransaction converts a domain BankTransaction to a model BankTransaction
func ToModelBankTransaction(d domain.BankTransaction) models.BankTransaction {
	return models.BankTransaction{
		BankTransactionID: d.BankTransactionID,
		BankAccountID:     d.BankAccountID,
		TransactionDate:   d.TransactionDate,
		Description:       d.Description,
		Amount:            d.Amount,
		Type:              models.BankTransactionType(d.Type),
		Status:            models.BankTransactionStatus(d.Status),
		ReferenceNumber:   d.ReferenceNumber,
		ImportBatchID:     d.ImportBatchID,
		JournalLineID:     d.JournalLineID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankTransaction converts a model BankTransaction to a domain BankTransaction
func ToDomainBankTransaction(m models.BankTransaction) domain.BankTransaction {
	return domain.BankTransaction{
		BankTransactionID: m.BankTransactionID,
		BankAccountID:     m.BankAccountID,
		TransactionDate:   m.TransactionDate,
		Description:       m.Description,
		Amount:            m.Amount,
		Type:              domain.BankTransactionType(m.Type),
		Status:            domain.BankTransactionStatus(m.Status),
		ReferenceNumber:   m.ReferenceNumber,
		ImportBatchID:     m.ImportBatchID,
		JournalLineID:     m.JournalLineID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankTransactionSlice converts a slice of domain BankTransactions to model BankTransactions
func ToModelBankTransactionSlice(ds []domain.BankTransaction) []models.BankTransaction {
	ms := make([]models.BankTransaction, len(ds))
	for i, d := range ds {
		ms[i] = ToModelBankTransaction(d)
	}
	return ms
}

// ToDomainBankTransactionSlice converts a slice of model BankTransactions to domain BankTransactions
func ToDomainBankTransactionSlice(ms []models.BankTransaction) []domain.BankTransaction {
	ds := make([]domain.BankTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankTransaction(m)
	}
	return ds
}
