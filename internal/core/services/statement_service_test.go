package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

type StatementServiceTestSuite struct {
	suite.Suite
	mockStatementRepo *MockStatementRepository
	mockBankService   *MockBankService
	service           portssvc.StatementSvcFacade

	userID    string
	accountID string
}

func (suite *StatementServiceTestSuite) SetupTest() {
	suite.mockStatementRepo = new(MockStatementRepository)
	suite.mockBankService = new(MockBankService)
	suite.service = services.NewStatementService(suite.mockStatementRepo, suite.mockBankService)

	suite.userID = uuid.NewString()
	suite.accountID = uuid.NewString()
}

func (suite *StatementServiceTestSuite) storedRecord(statementNumber string) *domain.StatementRecord {
	return &domain.StatementRecord{
		StatementRecordID: uuid.NewString(),
		AccountID:         suite.accountID,
		StatementNumber:   statementNumber,
		StatementDate:     time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		LastFour:          "4821",
		UserID:            suite.userID,
		CreatedAt:         time.Now(),
	}
}

func (suite *StatementServiceTestSuite) TestIsProcessed_UnknownNumberNeverDedupes() {
	processed, err := suite.service.IsProcessed(context.Background(), suite.accountID, domain.UnknownStatementNumber, suite.userID)

	suite.Require().NoError(err)
	suite.False(processed)
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "FindStatementRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StatementServiceTestSuite) TestIsProcessed_ExistingRecord() {
	record := suite.storedRecord("STMT-2025-06")
	suite.mockStatementRepo.On("FindStatementRecord", mock.Anything, suite.accountID, "STMT-2025-06", suite.userID).Return(record, nil).Once()

	processed, err := suite.service.IsProcessed(context.Background(), suite.accountID, "STMT-2025-06", suite.userID)

	suite.Require().NoError(err)
	suite.True(processed)
}

func (suite *StatementServiceTestSuite) TestIsProcessed_MissingRecord() {
	suite.mockStatementRepo.On("FindStatementRecord", mock.Anything, suite.accountID, "STMT-2025-07", suite.userID).Return(nil, apperrors.NewNotFoundError("statement record not found")).Once()

	processed, err := suite.service.IsProcessed(context.Background(), suite.accountID, "STMT-2025-07", suite.userID)

	suite.Require().NoError(err)
	suite.False(processed)
}

func (suite *StatementServiceTestSuite) TestRecordStatement_FillsIDAndTimestamp() {
	stored := &domain.StatementRecord{}
	suite.mockStatementRepo.On("InsertStatementRecord", mock.Anything, mock.MatchedBy(func(r domain.StatementRecord) bool {
		return r.StatementRecordID != "" && !r.CreatedAt.IsZero()
	})).Run(func(args mock.Arguments) {
		*stored = args.Get(1).(domain.StatementRecord)
	}).Return(stored, nil).Once()

	record, err := suite.service.RecordStatement(context.Background(), domain.StatementRecord{
		AccountID:       suite.accountID,
		StatementNumber: "STMT-2025-06",
		UserID:          suite.userID,
	})

	suite.Require().NoError(err)
	suite.NotEmpty(record.StatementRecordID)
	suite.False(record.CreatedAt.IsZero())
}

func (suite *StatementServiceTestSuite) TestFindByIdentifiers_StatementNumberWins() {
	byNumber := suite.storedRecord("STMT-2025-06")
	suite.mockStatementRepo.On("FindByStatementNumber", mock.Anything, "STMT-2025-06", suite.userID).Return([]domain.StatementRecord{*byNumber}, nil).Once()

	found, err := suite.service.FindByIdentifiers(context.Background(), "STMT-2025-06", "4821", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(byNumber.StatementRecordID, found.StatementRecordID)
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "FindByLastFour", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StatementServiceTestSuite) TestFindByIdentifiers_FallsBackToLastFour() {
	byLastFour := suite.storedRecord("STMT-2025-05")
	suite.mockStatementRepo.On("FindByStatementNumber", mock.Anything, "STMT-2025-06", suite.userID).Return([]domain.StatementRecord{}, nil).Once()
	suite.mockStatementRepo.On("FindByLastFour", mock.Anything, "4821", suite.userID).Return([]domain.StatementRecord{*byLastFour}, nil).Once()

	found, err := suite.service.FindByIdentifiers(context.Background(), "STMT-2025-06", "4821", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(byLastFour.StatementRecordID, found.StatementRecordID)
}

func (suite *StatementServiceTestSuite) TestFindByIdentifiers_UnknownNumberSkipsNumberLookup() {
	byLastFour := suite.storedRecord(domain.UnknownStatementNumber)
	suite.mockStatementRepo.On("FindByLastFour", mock.Anything, "4821", suite.userID).Return([]domain.StatementRecord{*byLastFour}, nil).Once()

	found, err := suite.service.FindByIdentifiers(context.Background(), domain.UnknownStatementNumber, "4821", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(byLastFour.StatementRecordID, found.StatementRecordID)
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "FindByStatementNumber", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StatementServiceTestSuite) TestFindByIdentifiers_NothingMatches() {
	suite.mockStatementRepo.On("FindByStatementNumber", mock.Anything, "STMT-404", suite.userID).Return([]domain.StatementRecord{}, nil).Once()
	suite.mockStatementRepo.On("FindByLastFour", mock.Anything, "0000", suite.userID).Return([]domain.StatementRecord{}, nil).Once()

	_, err := suite.service.FindByIdentifiers(context.Background(), "STMT-404", "0000", suite.userID)

	suite.Require().Error(err)
	suite.True(apperrors.IsNotFound(err))
}

func (suite *StatementServiceTestSuite) TestProcessStatement_AlreadyProcessed() {
	existing := suite.storedRecord("STMT-2025-06")
	suite.mockStatementRepo.On("FindStatementRecord", mock.Anything, suite.accountID, "STMT-2025-06", suite.userID).Return(existing, nil).Twice()

	resp, err := suite.service.ProcessStatement(context.Background(), dto.ProcessStatementRequest{
		StatementNumber: "STMT-2025-06",
		StatementDate:   existing.StatementDate,
		AccountID:       &suite.accountID,
	}, suite.userID)

	suite.Require().NoError(err)
	suite.True(resp.AlreadyProcessed)
	suite.Equal(existing.StatementRecordID, resp.StatementRecord)
	suite.Zero(resp.Imported)
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "InsertStatementRecord", mock.Anything, mock.Anything)
}

func (suite *StatementServiceTestSuite) TestProcessStatement_RecordsAndImports() {
	bankAccountID := uuid.NewString()
	suite.mockStatementRepo.On("FindStatementRecord", mock.Anything, suite.accountID, "STMT-2025-07", suite.userID).Return(nil, apperrors.NewNotFoundError("statement record not found")).Once()
	stored := &domain.StatementRecord{}
	suite.mockStatementRepo.On("InsertStatementRecord", mock.Anything, mock.MatchedBy(func(r domain.StatementRecord) bool {
		return r.AccountID == suite.accountID && r.StatementNumber == "STMT-2025-07" && r.UserID == suite.userID
	})).Run(func(args mock.Arguments) {
		*stored = args.Get(1).(domain.StatementRecord)
	}).Return(stored, nil).Once()
	suite.mockBankService.On("ImportBankTransactions", mock.Anything, mock.MatchedBy(func(req dto.ImportBankTransactionsRequest) bool {
		return req.BankAccountID == bankAccountID && len(req.Transactions) == 2
	}), suite.userID).Return(&dto.ImportBankTransactionsResponse{ImportBatchID: uuid.NewString(), Imported: 2}, nil).Once()

	resp, err := suite.service.ProcessStatement(context.Background(), dto.ProcessStatementRequest{
		StatementNumber: "STMT-2025-07",
		StatementDate:   time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		AccountID:       &suite.accountID,
		BankAccountID:   &bankAccountID,
		Transactions: []dto.ImportBankTransactionItem{
			{Date: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), Description: "DEPOSIT", Amount: decimal.NewFromInt(250), Type: domain.BankCredit},
			{Date: time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC), Description: "UTILITIES", Amount: decimal.NewFromInt(80), Type: domain.BankDebit},
		},
	}, suite.userID)

	suite.Require().NoError(err)
	suite.False(resp.AlreadyProcessed)
	suite.Equal(2, resp.Imported)
	suite.mockBankService.AssertExpectations(suite.T())
}

func (suite *StatementServiceTestSuite) TestProcessStatement_ImportFailureAfterRecording() {
	bankAccountID := uuid.NewString()
	suite.mockStatementRepo.On("FindStatementRecord", mock.Anything, suite.accountID, "STMT-2025-08", suite.userID).Return(nil, apperrors.NewNotFoundError("statement record not found")).Once()
	stored := &domain.StatementRecord{}
	suite.mockStatementRepo.On("InsertStatementRecord", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*stored = args.Get(1).(domain.StatementRecord)
	}).Return(stored, nil).Once()
	suite.mockBankService.On("ImportBankTransactions", mock.Anything, mock.Anything, suite.userID).Return(nil, errors.New("db unavailable")).Once()

	_, err := suite.service.ProcessStatement(context.Background(), dto.ProcessStatementRequest{
		StatementNumber: "STMT-2025-08",
		StatementDate:   time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
		AccountID:       &suite.accountID,
		BankAccountID:   &bankAccountID,
		Transactions: []dto.ImportBankTransactionItem{
			{Date: time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC), Description: "DEPOSIT", Amount: decimal.NewFromInt(10), Type: domain.BankCredit},
		},
	}, suite.userID)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "statement recorded but transaction import failed")
	suite.mockStatementRepo.AssertExpectations(suite.T())
}

func (suite *StatementServiceTestSuite) TestProcessStatement_ReidentifiesAccount() {
	existing := suite.storedRecord("STMT-2025-05")
	suite.mockStatementRepo.On("FindByStatementNumber", mock.Anything, "STMT-2025-09", suite.userID).Return([]domain.StatementRecord{}, nil).Once()
	suite.mockStatementRepo.On("FindByLastFour", mock.Anything, "4821", suite.userID).Return([]domain.StatementRecord{*existing}, nil).Once()
	suite.mockStatementRepo.On("FindStatementRecord", mock.Anything, suite.accountID, "STMT-2025-09", suite.userID).Return(nil, apperrors.NewNotFoundError("statement record not found")).Once()
	stored := &domain.StatementRecord{}
	suite.mockStatementRepo.On("InsertStatementRecord", mock.Anything, mock.MatchedBy(func(r domain.StatementRecord) bool {
		return r.AccountID == suite.accountID
	})).Run(func(args mock.Arguments) {
		*stored = args.Get(1).(domain.StatementRecord)
	}).Return(stored, nil).Once()

	resp, err := suite.service.ProcessStatement(context.Background(), dto.ProcessStatementRequest{
		StatementNumber: "STMT-2025-09",
		StatementDate:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
		LastFour:        "4821",
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(suite.accountID, resp.AccountID)
}

func (suite *StatementServiceTestSuite) TestProcessStatement_UnidentifiableAccount() {
	suite.mockStatementRepo.On("FindByStatementNumber", mock.Anything, "STMT-2025-10", suite.userID).Return([]domain.StatementRecord{}, nil).Once()

	_, err := suite.service.ProcessStatement(context.Background(), dto.ProcessStatementRequest{
		StatementNumber: "STMT-2025-10",
		StatementDate:   time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
	}, suite.userID)

	suite.Require().Error(err)
	suite.True(apperrors.IsNotFound(err))
	suite.mockStatementRepo.AssertNotCalled(suite.T(), "InsertStatementRecord", mock.Anything, mock.Anything)
}

func TestStatementService(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}
