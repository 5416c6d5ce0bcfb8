package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// bankService provides bank accounts and the bank transaction store.
type bankService struct {
	bankRepo    portsrepo.BankRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewBankService creates a new BankService.
func NewBankService(bankRepo portsrepo.BankRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.BankSvcFacade {
	return &bankService{
		bankRepo:    bankRepo,
		accountRepo: accountRepo,
	}
}

// Ensure bankService implements the portssvc.BankSvcFacade interface
var _ portssvc.BankSvcFacade = (*bankService)(nil)

// CreateBankAccount registers a bank account against a GL account. One GL
// account backs at most one bank account by convention.
func (s *bankService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	glAccount, err := s.accountRepo.FindAccountByID(ctx, req.GLAccountID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: GL account %s not found", apperrors.ErrValidation, req.GLAccountID)
		}
		return nil, err
	}
	if !glAccount.IsActive {
		return nil, fmt.Errorf("%w: GL account %s is inactive", apperrors.ErrValidation, req.GLAccountID)
	}

	now := time.Now()
	account := domain.BankAccount{
		BankAccountID:   uuid.NewString(),
		Name:            req.Name,
		AccountNumber:   req.AccountNumber,
		InstitutionName: req.InstitutionName,
		GLAccountID:     req.GLAccountID,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.bankRepo.SaveBankAccount(ctx, account); err != nil {
		logger.Error("Failed to save bank account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}

	logger.Info("Bank account created", slog.String("bank_account_id", account.BankAccountID))
	return &account, nil
}

// GetBankAccountByID retrieves a bank account by its id.
func (s *bankService) GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	return s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
}

// ListBankAccounts retrieves all bank accounts.
func (s *bankService) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	return s.bankRepo.ListBankAccounts(ctx)
}

// ImportBankTransactions bulk-inserts statement transactions under a fresh
// import batch id. The whole batch lands or none of it does.
func (s *bankService) ImportBankTransactions(ctx context.Context, req dto.ImportBankTransactionsRequest, userID string) (*dto.ImportBankTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.bankRepo.FindBankAccountByID(ctx, req.BankAccountID); err != nil {
		return nil, err
	}

	now := time.Now()
	batchID := uuid.NewString()
	transactions := make([]domain.BankTransaction, len(req.Transactions))
	for i, item := range req.Transactions {
		if item.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: transaction amounts must not be negative", apperrors.ErrValidation)
		}
		transactions[i] = domain.BankTransaction{
			BankTransactionID: uuid.NewString(),
			BankAccountID:     req.BankAccountID,
			TransactionDate:   item.Date,
			Description:       item.Description,
			Amount:            item.Amount,
			Type:              item.Type,
			Status:            domain.TransactionUnmatched,
			ReferenceNumber:   item.ReferenceNumber,
			ImportBatchID:     &batchID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	if err := s.bankRepo.SaveBankTransactions(ctx, transactions); err != nil {
		logger.Error("Failed to import bank transactions", slog.String("bank_account_id", req.BankAccountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to import bank transactions: %w", err)
	}

	logger.Info("Bank transactions imported",
		slog.String("bank_account_id", req.BankAccountID),
		slog.String("import_batch_id", batchID),
		slog.Int("count", len(transactions)),
	)
	return &dto.ImportBankTransactionsResponse{ImportBatchID: batchID, Imported: len(transactions)}, nil
}

// ListBankTransactions retrieves transactions of a bank account in a window.
func (s *bankService) ListBankTransactions(ctx context.Context, bankAccountID string, from, to time.Time, status *domain.BankTransactionStatus) ([]domain.BankTransaction, error) {
	if _, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID); err != nil {
		return nil, err
	}
	return s.bankRepo.ListBankTransactions(ctx, bankAccountID, from, to, status)
}

// SetBankTransactionStatus moves a bank transaction along the
// unmatched/matched/cleared lifecycle.
func (s *bankService) SetBankTransactionStatus(ctx context.Context, bankTransactionID string, status domain.BankTransactionStatus, userID string) (*domain.BankTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.bankRepo.FindBankTransactionByID(ctx, bankTransactionID)
	if err != nil {
		return nil, err
	}
	if !txn.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: bank transaction %s cannot move from %s to %s", apperrors.ErrConflict, bankTransactionID, txn.Status, status)
	}

	now := time.Now()
	if err := s.bankRepo.UpdateBankTransactionStatus(ctx, bankTransactionID, status, userID, now); err != nil {
		logger.Error("Failed to update bank transaction status", slog.String("bank_transaction_id", bankTransactionID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update bank transaction status: %w", err)
	}

	txn.Status = status
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = userID
	logger.Info("Bank transaction status updated",
		slog.String("bank_transaction_id", bankTransactionID),
		slog.String("status", string(status)),
	)
	return txn, nil
}
