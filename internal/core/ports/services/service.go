package services

// ServiceContainer bundles all service facades for route registration.
type ServiceContainer struct {
	Account        AccountSvcFacade
	Journal        JournalSvcFacade
	Recurring      RecurringSvcFacade
	Bank           BankSvcFacade
	Reconciliation ReconciliationSvcFacade
	Statement      StatementSvcFacade
}
