package pgsql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/repositories/database/pgsql"
)

// The provider must plug straight into the service container the way main.go
// wires them, with every repository populated.
func TestNewRepositoryProvider_WiresIntoServiceContainer(t *testing.T) {
	repos := pgsql.NewRepositoryProvider(nil)
	require.NotNil(t, repos)

	assert.NotNil(t, repos.AccountRepo)
	assert.NotNil(t, repos.JournalRepo)
	assert.NotNil(t, repos.PeriodLockRepo)
	assert.NotNil(t, repos.RecurringRepo)
	assert.NotNil(t, repos.BankRepo)
	assert.NotNil(t, repos.ReconciliationRepo)
	assert.NotNil(t, repos.StatementRepo)
	assert.NotNil(t, repos.AuditRepo)

	container := services.NewServiceContainer(repos)
	require.NotNil(t, container)
	assert.NotNil(t, container.Account)
	assert.NotNil(t, container.Journal)
	assert.NotNil(t, container.Recurring)
	assert.NotNil(t, container.Bank)
	assert.NotNil(t, container.Reconciliation)
	assert.NotNil(t, container.Statement)
}
