package pgsql

import (
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgx repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:        newPgxAccountRepository(dbPool),
		JournalRepo:        newPgxJournalRepository(dbPool),
		PeriodLockRepo:     newPgxPeriodLockRepository(dbPool),
		RecurringRepo:      newPgxRecurringJournalRepository(dbPool),
		BankRepo:           newPgxBankRepository(dbPool),
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
		StatementRepo:      newPgxStatementRepository(dbPool),
		AuditRepo:          newPgxAuditEventRepository(dbPool),
	}
}
