package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, code, name, account_type, description, is_active, is_deleted, balance, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Description,
		&m.IsActive,
		&m.IsDeleted,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.Code, m.Name, m.AccountType, m.Description,
		m.IsActive, m.IsDeleted, m.Balance,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its id. Soft-deleted accounts are not found.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND is_deleted = FALSE;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by id. Missing ids are
// absent from the map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) AND is_deleted = FALSE;`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		result[m.AccountID] = mapping.ToDomainAccount(m)
	}
	return result, rows.Err()
}

// ListAccounts retrieves accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE is_deleted = FALSE ORDER BY code LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, m)
	}
	return mapping.ToDomainAccountSlice(accounts), rows.Err()
}

// UpdateAccount updates the mutable fields of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, description = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1 AND is_deleted = FALSE;
	`
	tag, err := r.Pool.Exec(ctx, query, m.AccountID, m.Name, m.Description, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", m.AccountID))
	}
	return nil
}

// DeactivateAccount marks an account inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_deleted = FALSE;
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
	}
	return nil
}

// RecomputeBalances rederives the cached balance of each account from the
// posted journal line ledger, applying the debit/credit sign convention of
// the account type.
func (r *PgxAccountRepository) RecomputeBalances(ctx context.Context, accountIDs []string, updatedByUserID string, updatedAt time.Time) error {
	if len(accountIDs) == 0 {
		return nil
	}
	query := `
		UPDATE accounts a
		SET balance = CASE
				WHEN a.account_type IN ('ASSET', 'EXPENSE') THEN COALESCE(l.net, 0)
				ELSE -COALESCE(l.net, 0)
			END,
			last_updated_at = $2,
			last_updated_by = $3
		FROM (SELECT unnest($1::text[]) AS account_id) ids
		LEFT JOIN (
			SELECT jl.account_id, SUM(jl.debit - jl.credit) AS net
			FROM journal_lines jl
			JOIN journals j ON j.journal_id = jl.journal_id
			WHERE j.status = 'POSTED' AND j.is_deleted = FALSE
			GROUP BY jl.account_id
		) l ON l.account_id = ids.account_id
		WHERE a.account_id = ids.account_id;
	`
	if _, err := r.Pool.Exec(ctx, query, accountIDs, updatedAt, updatedByUserID); err != nil {
		return fmt.Errorf("failed to recompute account balances: %w", err)
	}
	return nil
}
