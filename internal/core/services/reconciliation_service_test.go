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
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/core/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconciliationRepo *MockReconciliationRepository
	mockBankRepo           *MockBankRepository
	mockJournalRepo        *MockJournalRepository
	service                portssvc.ReconciliationSvcFacade

	userID      string
	bankAccount *domain.BankAccount
	windowStart time.Time
	windowEnd   time.Time
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockReconciliationRepo = new(MockReconciliationRepository)
	suite.mockBankRepo = new(MockBankRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewReconciliationService(suite.mockReconciliationRepo, suite.mockBankRepo, suite.mockJournalRepo)

	suite.userID = uuid.NewString()
	suite.bankAccount = &domain.BankAccount{
		BankAccountID: uuid.NewString(),
		Name:          "Operating Checking",
		AccountNumber: "****4821",
		GLAccountID:   uuid.NewString(),
		IsActive:      true,
	}
	suite.windowStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.windowEnd = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
}

func (suite *ReconciliationServiceTestSuite) pendingSession() *domain.ReconciliationSession {
	return &domain.ReconciliationSession{
		SessionID:            uuid.NewString(),
		BankAccountID:        suite.bankAccount.BankAccountID,
		StartDate:            suite.windowStart,
		EndDate:              suite.windowEnd,
		BankStatementBalance: decimal.NewFromInt(5000),
		Status:               domain.ReconciliationPending,
	}
}

func (suite *ReconciliationServiceTestSuite) TestCreateSession_Success() {
	suite.mockBankRepo.On("FindBankAccountByID", mock.Anything, suite.bankAccount.BankAccountID).Return(suite.bankAccount, nil).Once()
	suite.mockReconciliationRepo.On("CreateSession", mock.Anything, mock.MatchedBy(func(s domain.ReconciliationSession) bool {
		return s.Status == domain.ReconciliationPending && s.BankAccountID == suite.bankAccount.BankAccountID
	})).Return(nil).Once()

	session, err := suite.service.CreateSession(context.Background(), dto.CreateReconciliationSessionRequest{
		BankAccountID:        suite.bankAccount.BankAccountID,
		StartDate:            suite.windowStart,
		EndDate:              suite.windowEnd,
		BankStatementBalance: decimal.NewFromInt(5000),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationPending, session.Status)
	suite.Nil(session.CompletedAt)
	suite.mockReconciliationRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestCreateSession_InactiveBankAccountRejected() {
	inactive := *suite.bankAccount
	inactive.IsActive = false
	suite.mockBankRepo.On("FindBankAccountByID", mock.Anything, inactive.BankAccountID).Return(&inactive, nil).Once()

	_, err := suite.service.CreateSession(context.Background(), dto.CreateReconciliationSessionRequest{
		BankAccountID: inactive.BankAccountID,
		StartDate:     suite.windowStart,
		EndDate:       suite.windowEnd,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "CreateSession", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCreateSession_EndBeforeStartRejected() {
	suite.mockBankRepo.On("FindBankAccountByID", mock.Anything, suite.bankAccount.BankAccountID).Return(suite.bankAccount, nil).Once()

	_, err := suite.service.CreateSession(context.Background(), dto.CreateReconciliationSessionRequest{
		BankAccountID: suite.bankAccount.BankAccountID,
		StartDate:     suite.windowEnd,
		EndDate:       suite.windowStart,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconciliationServiceTestSuite) TestCreateSession_PendingSessionConflict() {
	existingID := uuid.NewString()
	suite.mockBankRepo.On("FindBankAccountByID", mock.Anything, suite.bankAccount.BankAccountID).Return(suite.bankAccount, nil).Once()
	suite.mockReconciliationRepo.On("CreateSession", mock.Anything, mock.Anything).Return(&portsrepo.PendingSessionExistsError{ExistingSessionID: existingID}).Once()

	_, err := suite.service.CreateSession(context.Background(), dto.CreateReconciliationSessionRequest{
		BankAccountID: suite.bankAccount.BankAccountID,
		StartDate:     suite.windowStart,
		EndDate:       suite.windowEnd,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	var pendingErr *portsrepo.PendingSessionExistsError
	suite.Require().True(errors.As(err, &pendingErr))
	suite.Equal(existingID, pendingErr.ExistingSessionID)
}

func (suite *ReconciliationServiceTestSuite) TestUpdateSession_OnlyPendingEditable() {
	session := suite.pendingSession()
	session.Status = domain.ReconciliationCompleted
	suite.mockReconciliationRepo.On("FindSessionByID", mock.Anything, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.UpdateSession(context.Background(), session.SessionID, dto.UpdateReconciliationSessionRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "UpdateSessionWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCompleteSession_Success() {
	session := suite.pendingSession()
	suite.mockReconciliationRepo.On("FindSessionByID", mock.Anything, session.SessionID).Return(session, nil).Once()
	suite.mockBankRepo.On("CountUnmatched", mock.Anything, session.BankAccountID, session.StartDate, session.EndDate).Return(int64(0), nil).Once()
	suite.mockReconciliationRepo.On("CompleteSession", mock.Anything, session.SessionID, mock.AnythingOfType("time.Time"), suite.userID).Return(nil).Once()

	completed, err := suite.service.CompleteSession(context.Background(), session.SessionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationCompleted, completed.Status)
	suite.NotNil(completed.CompletedAt)
	suite.mockReconciliationRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestCompleteSession_UnmatchedTransactionsBlock() {
	session := suite.pendingSession()
	suite.mockReconciliationRepo.On("FindSessionByID", mock.Anything, session.SessionID).Return(session, nil).Once()
	suite.mockBankRepo.On("CountUnmatched", mock.Anything, session.BankAccountID, session.StartDate, session.EndDate).Return(int64(3), nil).Once()

	_, err := suite.service.CompleteSession(context.Background(), session.SessionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "3 unmatched")
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "CompleteSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCompleteSession_AlreadyCompletedConflict() {
	session := suite.pendingSession()
	session.Status = domain.ReconciliationCompleted
	suite.mockReconciliationRepo.On("FindSessionByID", mock.Anything, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.CompleteSession(context.Background(), session.SessionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockBankRepo.AssertNotCalled(suite.T(), "CountUnmatched", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestReopenSession_FromCompleted() {
	session := suite.pendingSession()
	session.Status = domain.ReconciliationCompleted
	suite.mockReconciliationRepo.On("FindSessionByID", mock.Anything, session.SessionID).Return(session, nil).Once()
	suite.mockReconciliationRepo.On("ReopenSession", mock.Anything, session.SessionID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reopened, err := suite.service.ReopenSession(context.Background(), session.SessionID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReconciliationReopened, reopened.Status)
}

func (suite *ReconciliationServiceTestSuite) TestReopenSession_PendingCannotReopen() {
	session := suite.pendingSession()
	suite.mockReconciliationRepo.On("FindSessionByID", mock.Anything, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.ReopenSession(context.Background(), session.SessionID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockReconciliationRepo.AssertNotCalled(suite.T(), "ReopenSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestSuggestMatches_NoUnmatchedTransactions() {
	session := suite.pendingSession()
	suite.mockReconciliationRepo.On("FindSessionByID", mock.Anything, session.SessionID).Return(session, nil).Once()
	suite.mockBankRepo.On("FindBankAccountByID", mock.Anything, session.BankAccountID).Return(suite.bankAccount, nil).Once()
	suite.mockBankRepo.On("ListBankTransactions", mock.Anything, session.BankAccountID, session.StartDate, session.EndDate, mock.Anything).Return([]domain.BankTransaction{}, nil).Once()

	suggestions, err := suite.service.SuggestMatches(context.Background(), session.SessionID)

	suite.Require().NoError(err)
	suite.Nil(suggestions)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindPostedLinesByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestSuggestMatches_FiltersAndRanks() {
	session := suite.pendingSession()
	txnDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	deposit := domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		BankAccountID:     session.BankAccountID,
		TransactionDate:   txnDate,
		Description:       "ACME CORP PAYMENT",
		Amount:            decimal.NewFromInt(100),
		Type:              domain.BankCredit,
		Status:            domain.TransactionUnmatched,
	}
	withdrawal := domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		BankAccountID:     session.BankAccountID,
		TransactionDate:   txnDate,
		Description:       "OFFICE SUPPLIES",
		Amount:            decimal.NewFromInt(40),
		Type:              domain.BankDebit,
		Status:            domain.TransactionUnmatched,
	}

	// Money in on the statement corresponds to a GL debit on the bank-backed account.
	sameDayMatch := domain.JournalLine{
		LineID:      uuid.NewString(),
		JournalID:   uuid.NewString(),
		AccountID:   suite.bankAccount.GLAccountID,
		Description: "ACME CORP PAYMENT",
		Debit:       decimal.NewFromInt(100),
		JournalDate: txnDate,
	}
	weekOldMatch := domain.JournalLine{
		LineID:      uuid.NewString(),
		JournalID:   uuid.NewString(),
		AccountID:   suite.bankAccount.GLAccountID,
		Description: "OFFICE SUPPLIES",
		Credit:      decimal.NewFromInt(40),
		JournalDate: txnDate.AddDate(0, 0, -7),
	}
	wrongAmount := domain.JournalLine{
		LineID:      uuid.NewString(),
		JournalID:   uuid.NewString(),
		AccountID:   suite.bankAccount.GLAccountID,
		Description: "ACME CORP PAYMENT",
		Debit:       decimal.NewFromInt(101),
		JournalDate: txnDate,
	}
	wrongDirection := domain.JournalLine{
		LineID:      uuid.NewString(),
		JournalID:   uuid.NewString(),
		AccountID:   suite.bankAccount.GLAccountID,
		Description: "ACME CORP PAYMENT",
		Credit:      decimal.NewFromInt(100),
		JournalDate: txnDate,
	}

	suite.mockReconciliationRepo.On("FindSessionByID", mock.Anything, session.SessionID).Return(session, nil).Once()
	suite.mockBankRepo.On("FindBankAccountByID", mock.Anything, session.BankAccountID).Return(suite.bankAccount, nil).Once()
	suite.mockBankRepo.On("ListBankTransactions", mock.Anything, session.BankAccountID, session.StartDate, session.EndDate, mock.Anything).
		Return([]domain.BankTransaction{deposit, withdrawal}, nil).Once()
	// The book-side window is widened by seven days on both ends.
	horizon := 7 * 24 * time.Hour
	suite.mockJournalRepo.On("FindPostedLinesByAccount", mock.Anything, suite.bankAccount.GLAccountID,
		session.StartDate.Add(-horizon), session.EndDate.Add(horizon)).
		Return([]domain.JournalLine{weekOldMatch, wrongAmount, wrongDirection, sameDayMatch}, nil).Once()

	suggestions, err := suite.service.SuggestMatches(context.Background(), session.SessionID)

	suite.Require().NoError(err)
	suite.Require().Len(suggestions, 2)

	// Identical description and same day: 0.5 + 0.3 + 0.2 = 1.0, ranked first.
	suite.Equal(deposit.BankTransactionID, suggestions[0].BankTransactionID)
	suite.Equal(sameDayMatch.LineID, suggestions[0].JournalLineID)
	suite.InDelta(1.0, suggestions[0].Score, 0.0001)

	// Identical description but seven days out: the date component drops to zero.
	suite.Equal(withdrawal.BankTransactionID, suggestions[1].BankTransactionID)
	suite.Equal(weekOldMatch.LineID, suggestions[1].JournalLineID)
	suite.InDelta(0.7, suggestions[1].Score, 0.0001)
}

func (suite *ReconciliationServiceTestSuite) TestSuggestMatches_AmountMatchAloneScoresFloor() {
	session := suite.pendingSession()
	txnDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	txn := domain.BankTransaction{
		BankTransactionID: uuid.NewString(),
		BankAccountID:     session.BankAccountID,
		TransactionDate:   txnDate,
		Description:       "ZZZZZZZZZZ",
		Amount:            decimal.NewFromInt(100),
		Type:              domain.BankCredit,
		Status:            domain.TransactionUnmatched,
	}
	// Right amount and direction, but past the date horizon with a fully
	// dissimilar description: only the amount component contributes.
	farLine := domain.JournalLine{
		LineID:      uuid.NewString(),
		JournalID:   uuid.NewString(),
		AccountID:   suite.bankAccount.GLAccountID,
		Description: "AAAAAAAAAA",
		Debit:       decimal.NewFromInt(100),
		JournalDate: txnDate.AddDate(0, 0, 10),
	}

	suite.mockReconciliationRepo.On("FindSessionByID", mock.Anything, session.SessionID).Return(session, nil).Once()
	suite.mockBankRepo.On("FindBankAccountByID", mock.Anything, session.BankAccountID).Return(suite.bankAccount, nil).Once()
	suite.mockBankRepo.On("ListBankTransactions", mock.Anything, session.BankAccountID, session.StartDate, session.EndDate, mock.Anything).
		Return([]domain.BankTransaction{txn}, nil).Once()
	suite.mockJournalRepo.On("FindPostedLinesByAccount", mock.Anything, suite.bankAccount.GLAccountID, mock.Anything, mock.Anything).
		Return([]domain.JournalLine{farLine}, nil).Once()

	suggestions, err := suite.service.SuggestMatches(context.Background(), session.SessionID)

	suite.Require().NoError(err)
	suite.Require().Len(suggestions, 1)
	suite.InDelta(0.5, suggestions[0].Score, 0.0001)
}

func TestReconciliationService(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
