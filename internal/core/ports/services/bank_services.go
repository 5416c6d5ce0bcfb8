package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// BankSvcFacade exposes bank accounts and the bank transaction store.
type BankSvcFacade interface {
	CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error)
	GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error)

	ImportBankTransactions(ctx context.Context, req dto.ImportBankTransactionsRequest, userID string) (*dto.ImportBankTransactionsResponse, error)
	ListBankTransactions(ctx context.Context, bankAccountID string, from, to time.Time, status *domain.BankTransactionStatus) ([]domain.BankTransaction, error)
	SetBankTransactionStatus(ctx context.Context, bankTransactionID string, status domain.BankTransactionStatus, userID string) (*domain.BankTransaction, error)
}
