package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		Code:        d.Code,
		Name:        d.Name,
		AccountType: models.AccountType(d.AccountType),
		Description: d.Description,
		IsActive:    d.IsActive,
		IsDeleted:   d.IsDeleted,
		Balance:     d.Balance,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		Description: m.Description,
		IsActive:    m.IsActive,
		IsDeleted:   m.IsDeleted,
		Balance:     m.Balance,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
