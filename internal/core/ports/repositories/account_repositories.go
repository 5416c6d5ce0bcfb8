package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by id. Missing ids are
	// simply absent from the map; callers decide whether that is an error.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by code.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeactivateAccount(ctx context.Context, accountID string, updatedByUserID string, updatedAt time.Time) error

	// RecomputeBalances rederives the cached balance of each account from the
	// posted journal line ledger. The cache is an optimization only; this is the
	// sole write path for it.
	RecomputeBalances(ctx context.Context, accountIDs []string, updatedByUserID string, updatedAt time.Time) error
}

// AccountRepositoryFacade combines account reader and writer interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
