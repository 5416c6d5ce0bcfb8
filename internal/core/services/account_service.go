package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

const (
	defaultAccountPageSize = 50
	maxAccountPageSize     = 200
)

// accountService provides chart-of-accounts operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new chart-of-accounts entry.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
		Balance:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves an account by its id.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByIDs retrieves multiple accounts keyed by id.
func (s *accountService) GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
}

// ListAccounts retrieves accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = defaultAccountPageSize
	}
	if limit > maxAccountPageSize {
		limit = maxAccountPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.accountRepo.ListAccounts(ctx, limit, offset)
}

// UpdateAccount revises the mutable fields of an account.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount marks an account inactive so new journal lines cannot
// reference it. Existing history is untouched.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, requestingUserID, time.Now()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
