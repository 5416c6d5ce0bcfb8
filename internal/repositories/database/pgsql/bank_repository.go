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

type PgxBankRepository struct {
	BaseRepository
}

// newPgxBankRepository creates a new repository for bank accounts and transactions.
func newPgxBankRepository(pool *pgxpool.Pool) portsrepo.BankRepositoryFacade {
	return &PgxBankRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxBankRepository implements portsrepo.BankRepositoryFacade
var _ portsrepo.BankRepositoryFacade = (*PgxBankRepository)(nil)

const bankAccountColumns = `bank_account_id, name, account_number, institution_name, gl_account_id, is_active, last_reconciled_date, created_at, created_by, last_updated_at, last_updated_by`

const bankTransactionColumns = `bank_transaction_id, bank_account_id, transaction_date, description, amount, type, status, reference_number, import_batch_id, journal_line_id, created_at, created_by, last_updated_at, last_updated_by`

func scanBankAccount(row pgx.Row) (models.BankAccount, error) {
	var m models.BankAccount
	err := row.Scan(
		&m.BankAccountID,
		&m.Name,
		&m.AccountNumber,
		&m.InstitutionName,
		&m.GLAccountID,
		&m.IsActive,
		&m.LastReconciledDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanBankTransaction(row pgx.Row) (models.BankTransaction, error) {
	var m models.BankTransaction
	err := row.Scan(
		&m.BankTransactionID,
		&m.BankAccountID,
		&m.TransactionDate,
		&m.Description,
		&m.Amount,
		&m.Type,
		&m.Status,
		&m.ReferenceNumber,
		&m.ImportBatchID,
		&m.JournalLineID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveBankAccount inserts a new bank account.
func (r *PgxBankRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := mapping.ToModelBankAccount(account)
	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BankAccountID, m.Name, m.AccountNumber, m.InstitutionName, m.GLAccountID,
		m.IsActive, m.LastReconciledDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bank account %s already exists", apperrors.ErrDuplicate, m.BankAccountID)
		}
		return fmt.Errorf("failed to save bank account %s: %w", m.BankAccountID, err)
	}
	return nil
}

// FindBankAccountByID retrieves a bank account by its id.
func (r *PgxBankRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`
	m, err := scanBankAccount(r.Pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("bank account %s not found", bankAccountID))
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	account := mapping.ToDomainBankAccount(m)
	return &account, nil
}

// FindBankAccountByGLAccountID resolves the active bank account backed by a
// GL account, if any.
func (r *PgxBankRepository) FindBankAccountByGLAccountID(ctx context.Context, glAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE gl_account_id = $1 AND is_active = TRUE LIMIT 1;`
	m, err := scanBankAccount(r.Pool.QueryRow(ctx, query, glAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("no bank account backed by GL account %s", glAccountID))
		}
		return nil, fmt.Errorf("failed to find bank account for GL account %s: %w", glAccountID, err)
	}
	account := mapping.ToDomainBankAccount(m)
	return &account, nil
}

// ListBankAccounts retrieves all bank accounts ordered by name.
func (r *PgxBankRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		m, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account row: %w", err)
		}
		accounts = append(accounts, m)
	}
	return mapping.ToDomainBankAccountSlice(accounts), rows.Err()
}

// FindBankTransactionByID retrieves a bank transaction by its id.
func (r *PgxBankRepository) FindBankTransactionByID(ctx context.Context, bankTransactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + bankTransactionColumns + ` FROM bank_transactions WHERE bank_transaction_id = $1;`
	m, err := scanBankTransaction(r.Pool.QueryRow(ctx, query, bankTransactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("bank transaction %s not found", bankTransactionID))
		}
		return nil, fmt.Errorf("failed to find bank transaction %s: %w", bankTransactionID, err)
	}
	txn := mapping.ToDomainBankTransaction(m)
	return &txn, nil
}

// ListBankTransactions retrieves transactions for a bank account within the
// inclusive date window. A nil status returns all statuses.
func (r *PgxBankRepository) ListBankTransactions(ctx context.Context, bankAccountID string, from, to time.Time, status *domain.BankTransactionStatus) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + bankTransactionColumns + `
		FROM bank_transactions
		WHERE bank_account_id = $1 AND transaction_date BETWEEN $2 AND $3
	`
	args := []interface{}{bankAccountID, from, to}
	if status != nil {
		query += ` AND status = $4`
		args = append(args, *status)
	}
	query += ` ORDER BY transaction_date, created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank transactions: %w", err)
	}
	defer rows.Close()

	var txns []models.BankTransaction
	for rows.Next() {
		m, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction row: %w", err)
		}
		txns = append(txns, m)
	}
	return mapping.ToDomainBankTransactionSlice(txns), rows.Err()
}

// CountUnmatched counts transactions in the window still awaiting matching.
func (r *PgxBankRepository) CountUnmatched(ctx context.Context, bankAccountID string, from, to time.Time) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*)
		FROM bank_transactions
		WHERE bank_account_id = $1 AND transaction_date BETWEEN $2 AND $3 AND status = 'UNMATCHED';
	`
	if err := r.Pool.QueryRow(ctx, query, bankAccountID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unmatched transactions: %w", err)
	}
	return count, nil
}

// CountByJournal counts derived transactions referencing any line of the journal.
func (r *PgxBankRepository) CountByJournal(ctx context.Context, journalID string) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*)
		FROM bank_transactions
		WHERE journal_line_id IN (SELECT line_id FROM journal_lines WHERE journal_id = $1);
	`
	if err := r.Pool.QueryRow(ctx, query, journalID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bank transactions for journal %s: %w", journalID, err)
	}
	return count, nil
}

// SaveBankTransactions batch-inserts transactions in one transaction.
func (r *PgxBankRepository) SaveBankTransactions(ctx context.Context, transactions []domain.BankTransaction) error {
	if len(transactions) == 0 {
		return nil
	}
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, m := range mapping.ToModelBankTransactionSlice(transactions) {
		batch.Queue(`
			INSERT INTO bank_transactions (`+bankTransactionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
		`,
			m.BankTransactionID, m.BankAccountID, m.TransactionDate, m.Description,
			m.Amount, m.Type, m.Status, m.ReferenceNumber, m.ImportBatchID, m.JournalLineID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to save bank transactions: %w", err)
	}

	return r.Commit(ctx, tx)
}

// UpdateBankTransactionStatus moves a transaction to the given status.
func (r *PgxBankRepository) UpdateBankTransactionStatus(ctx context.Context, bankTransactionID string, status domain.BankTransactionStatus, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE bank_transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_transaction_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, bankTransactionID, status, updatedAt, updatedByUserID)
	if err != nil {
		return fmt.Errorf("failed to update bank transaction %s: %w", bankTransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("bank transaction %s not found", bankTransactionID))
	}
	return nil
}

// DeleteUnmatchedDerivedByJournal removes derived transactions of an unposted
// journal that were never matched. Matched and cleared ones are kept.
func (r *PgxBankRepository) DeleteUnmatchedDerivedByJournal(ctx context.Context, journalID string) error {
	query := `
		DELETE FROM bank_transactions
		WHERE status = 'UNMATCHED'
			AND journal_line_id IN (SELECT line_id FROM journal_lines WHERE journal_id = $1);
	`
	if _, err := r.Pool.Exec(ctx, query, journalID); err != nil {
		return fmt.Errorf("failed to delete derived transactions for journal %s: %w", journalID, err)
	}
	return nil
}
