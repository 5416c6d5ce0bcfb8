package services

import (
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
)

// NewServiceContainer wires all services over the repository provider. The
// lifecycle hook pipeline is assembled once here and shared by every journal
// operation.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	hooks := NewHookPipeline(repos.AccountRepo, repos.PeriodLockRepo, repos.BankRepo, repos.AuditRepo)

	accountSvc := NewAccountService(repos.AccountRepo)
	journalSvc := NewJournalService(repos.JournalRepo, repos.PeriodLockRepo, repos.BankRepo, repos.AuditRepo, hooks)
	recurringSvc := NewRecurringService(repos.RecurringRepo, repos.JournalRepo)
	bankSvc := NewBankService(repos.BankRepo, repos.AccountRepo)
	reconciliationSvc := NewReconciliationService(repos.ReconciliationRepo, repos.BankRepo, repos.JournalRepo)
	statementSvc := NewStatementService(repos.StatementRepo, bankSvc)

	return &portssvc.ServiceContainer{
		Account:        accountSvc,
		Journal:        journalSvc,
		Recurring:      recurringSvc,
		Bank:           bankSvc,
		Reconciliation: reconciliationSvc,
		Statement:      statementSvc,
	}
}
