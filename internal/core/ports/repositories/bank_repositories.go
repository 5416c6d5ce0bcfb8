package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// BankAccountRepository persists bank accounts and their reconciliation marker.
type BankAccountRepository interface {
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// FindBankAccountByGLAccountID resolves the active bank account backed by a
	// GL account, if any. Used by the bank-derivation lifecycle stage.
	FindBankAccountByGLAccountID(ctx context.Context, glAccountID string) (*domain.BankAccount, error)

	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)
}

// BankTransactionReader defines read operations for bank transactions.
type BankTransactionReader interface {
	FindBankTransactionByID(ctx context.Context, bankTransactionID string) (*domain.BankTransaction, error)

	// ListBankTransactions retrieves transactions for a bank account within the
	// inclusive date window. A nil status returns all statuses.
	ListBankTransactions(ctx context.Context, bankAccountID string, from, to time.Time, status *domain.BankTransactionStatus) ([]domain.BankTransaction, error)

	// CountUnmatched counts transactions in the window that are not yet in a
	// terminal matched/cleared state.
	CountUnmatched(ctx context.Context, bankAccountID string, from, to time.Time) (int64, error)

	// CountByJournal counts derived transactions referencing any line of the journal.
	CountByJournal(ctx context.Context, journalID string) (int64, error)
}

// BankTransactionWriter defines write operations for bank transactions.
type BankTransactionWriter interface {
	// SaveBankTransactions batch-inserts transactions in one transaction.
	SaveBankTransactions(ctx context.Context, transactions []domain.BankTransaction) error

	UpdateBankTransactionStatus(ctx context.Context, bankTransactionID string, status domain.BankTransactionStatus, updatedByUserID string, updatedAt time.Time) error

	// DeleteUnmatchedDerivedByJournal removes derived transactions of an
	// unposted journal that were never matched. Matched ones are kept.
	DeleteUnmatchedDerivedByJournal(ctx context.Context, journalID string) error
}

// BankRepositoryFacade combines all bank-side repository interfaces.
type BankRepositoryFacade interface {
	BankAccountRepository
	BankTransactionReader
	BankTransactionWriter
}
