package repositories

// RepositoryProvider bundles all repository implementations for wiring into
// the service container.
type RepositoryProvider struct {
	AccountRepo        AccountRepositoryFacade
	JournalRepo        JournalRepositoryFacade
	PeriodLockRepo     PeriodLockRepository
	RecurringRepo      RecurringJournalRepository
	BankRepo           BankRepositoryFacade
	ReconciliationRepo ReconciliationRepository
	StatementRepo      StatementRepository
	AuditRepo          AuditEventRepository
}
