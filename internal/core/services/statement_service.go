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

// statementService is the statement deduplication tracker and ingestion boundary.
type statementService struct {
	statementRepo portsrepo.StatementRepository
	bankSvc       portssvc.BankSvcFacade
}

// NewStatementService creates a new StatementService.
func NewStatementService(statementRepo portsrepo.StatementRepository, bankSvc portssvc.BankSvcFacade) portssvc.StatementSvcFacade {
	return &statementService{
		statementRepo: statementRepo,
		bankSvc:       bankSvc,
	}
}

// Ensure statementService implements the portssvc.StatementSvcFacade interface
var _ portssvc.StatementSvcFacade = (*statementService)(nil)

// IsProcessed reports whether the exact (account, statement number, user)
// record exists. Statements numbered "unknown" never count as processed, so
// unparseable statements are always re-examined.
func (s *statementService) IsProcessed(ctx context.Context, accountID, statementNumber, userID string) (bool, error) {
	if statementNumber == domain.UnknownStatementNumber {
		return false, nil
	}
	_, err := s.statementRepo.FindStatementRecord(ctx, accountID, statementNumber, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RecordStatement stores the write-once dedup marker. Repeats return the
// already stored record.
func (s *statementService) RecordStatement(ctx context.Context, record domain.StatementRecord) (*domain.StatementRecord, error) {
	if record.StatementRecordID == "" {
		record.StatementRecordID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	return s.statementRepo.InsertStatementRecord(ctx, record)
}

// FindByIdentifiers re-identifies an account from a statement number, falling
// back to the last-four-digits match. The most recent record wins.
func (s *statementService) FindByIdentifiers(ctx context.Context, statementNumber, lastFour, userID string) (*domain.StatementRecord, error) {
	if statementNumber != "" && statementNumber != domain.UnknownStatementNumber {
		records, err := s.statementRepo.FindByStatementNumber(ctx, statementNumber, userID)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return &records[0], nil
		}
	}
	if lastFour != "" {
		records, err := s.statementRepo.FindByLastFour(ctx, lastFour, userID)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return &records[0], nil
		}
	}
	return nil, apperrors.NewNotFoundError("no statement record matches the given identifiers")
}

// ProcessStatement is the ingestion boundary: identify the account, check the
// dedup tracker, record the marker, and optionally import the statement's
// transactions into the bank store.
func (s *statementService) ProcessStatement(ctx context.Context, req dto.ProcessStatementRequest, userID string) (*dto.ProcessStatementResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountID := ""
	if req.AccountID != nil {
		accountID = *req.AccountID
	} else {
		match, err := s.FindByIdentifiers(ctx, req.StatementNumber, req.LastFour, userID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewNotFoundError("could not identify the account for this statement")
			}
			return nil, err
		}
		accountID = match.AccountID
	}

	processed, err := s.IsProcessed(ctx, accountID, req.StatementNumber, userID)
	if err != nil {
		return nil, err
	}
	if processed {
		existing, err := s.statementRepo.FindStatementRecord(ctx, accountID, req.StatementNumber, userID)
		if err != nil {
			return nil, err
		}
		logger.Info("Statement already processed",
			slog.String("account_id", accountID),
			slog.String("statement_number", req.StatementNumber),
		)
		return &dto.ProcessStatementResponse{
			AccountID:        accountID,
			StatementRecord:  existing.StatementRecordID,
			AlreadyProcessed: true,
		}, nil
	}

	record, err := s.RecordStatement(ctx, domain.StatementRecord{
		AccountID:         accountID,
		StatementNumber:   req.StatementNumber,
		StatementDate:     req.StatementDate,
		LastFour:          req.LastFour,
		IsStartingBalance: req.IsStartingBalance,
		UserID:            userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record statement: %w", err)
	}

	imported := 0
	if len(req.Transactions) > 0 && req.BankAccountID != nil {
		resp, err := s.bankSvc.ImportBankTransactions(ctx, dto.ImportBankTransactionsRequest{
			BankAccountID: *req.BankAccountID,
			Transactions:  req.Transactions,
		}, userID)
		if err != nil {
			// The dedup marker is already in place; surface the import failure.
			return nil, fmt.Errorf("statement recorded but transaction import failed: %w", err)
		}
		imported = resp.Imported
	}

	logger.Info("Statement processed",
		slog.String("account_id", accountID),
		slog.String("statement_number", req.StatementNumber),
		slog.Int("imported", imported),
	)
	return &dto.ProcessStatementResponse{
		AccountID:       accountID,
		StatementRecord: record.StatementRecordID,
		Imported:        imported,
	}, nil
}
