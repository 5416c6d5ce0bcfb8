package services

import (
	"context"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// AccountSvcFacade exposes chart-of-accounts operations.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, requestingUserID string) error
}
