package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, limit, nextToken, includeReversals)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) FindPostedLinesByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.JournalLine, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error {
	args := m.Called(ctx, journal, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) ReplaceJournalLines(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error {
	args := m.Called(ctx, journal, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournalStatus(ctx context.Context, journalID string, from, to domain.JournalStatus, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, journalID, from, to, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) SaveReversal(ctx context.Context, reversing domain.Journal, lines []domain.JournalLine, originalJournalID string, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, reversing, lines, originalJournalID, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockJournalRepository) SoftDeleteJournal(ctx context.Context, journalID string, deletedByUserID string, deletedAt time.Time) error {
	args := m.Called(ctx, journalID, deletedByUserID, deletedAt)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, accountID, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockAccountRepository) RecomputeBalances(ctx context.Context, accountIDs []string, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, accountIDs, updatedByUserID, updatedAt)
	return args.Error(0)
}

// --- Mock PeriodLockRepository ---
type MockPeriodLockRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodLockRepository = (*MockPeriodLockRepository)(nil)

func (m *MockPeriodLockRepository) IsPeriodLocked(ctx context.Context, period string) (bool, error) {
	args := m.Called(ctx, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeriodLockRepository) CreatePeriodLock(ctx context.Context, lock domain.PeriodLock) error {
	args := m.Called(ctx, lock)
	return args.Error(0)
}

func (m *MockPeriodLockRepository) DeletePeriodLock(ctx context.Context, period string) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodLockRepository) ListPeriodLocks(ctx context.Context) ([]domain.PeriodLock, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PeriodLock), args.Error(1)
}

// --- Mock BankRepository ---
type MockBankRepository struct {
	mock.Mock
}

var _ portsrepo.BankRepositoryFacade = (*MockBankRepository)(nil)

func (m *MockBankRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankRepository) FindBankAccountByGLAccountID(ctx context.Context, glAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, glAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankRepository) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockBankRepository) FindBankTransactionByID(ctx context.Context, bankTransactionID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, bankTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}

func (m *MockBankRepository) ListBankTransactions(ctx context.Context, bankAccountID string, from, to time.Time, status *domain.BankTransactionStatus) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, bankAccountID, from, to, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankRepository) CountUnmatched(ctx context.Context, bankAccountID string, from, to time.Time) (int64, error) {
	args := m.Called(ctx, bankAccountID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBankRepository) CountByJournal(ctx context.Context, journalID string) (int64, error) {
	args := m.Called(ctx, journalID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBankRepository) SaveBankTransactions(ctx context.Context, transactions []domain.BankTransaction) error {
	args := m.Called(ctx, transactions)
	return args.Error(0)
}

func (m *MockBankRepository) UpdateBankTransactionStatus(ctx context.Context, bankTransactionID string, status domain.BankTransactionStatus, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, bankTransactionID, status, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockBankRepository) DeleteUnmatchedDerivedByJournal(ctx context.Context, journalID string) error {
	args := m.Called(ctx, journalID)
	return args.Error(0)
}

// --- Mock AuditEventRepository ---
type MockAuditEventRepository struct {
	mock.Mock
}

var _ portsrepo.AuditEventRepository = (*MockAuditEventRepository)(nil)

func (m *MockAuditEventRepository) AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditEventRepository) ListAuditEventsByJournal(ctx context.Context, journalID string) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}

// --- Mock RecurringJournalRepository ---
type MockRecurringJournalRepository struct {
	mock.Mock
}

var _ portsrepo.RecurringJournalRepository = (*MockRecurringJournalRepository)(nil)

func (m *MockRecurringJournalRepository) SaveRecurringJournal(ctx context.Context, schedule domain.RecurringJournal) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockRecurringJournalRepository) FindRecurringJournalByID(ctx context.Context, recurringJournalID string) (*domain.RecurringJournal, error) {
	args := m.Called(ctx, recurringJournalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringJournal), args.Error(1)
}

func (m *MockRecurringJournalRepository) ListRecurringJournals(ctx context.Context, activeOnly bool) ([]domain.RecurringJournal, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringJournal), args.Error(1)
}

func (m *MockRecurringJournalRepository) PatchRecurringJournal(ctx context.Context, recurringJournalID string, patch domain.RecurringJournalPatch, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, recurringJournalID, patch, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockRecurringJournalRepository) GenerateOccurrence(ctx context.Context, recurringJournalID string, previousWatermark *time.Time, occurrence time.Time, journal domain.Journal, lines []domain.JournalLine) error {
	args := m.Called(ctx, recurringJournalID, previousWatermark, occurrence, journal, lines)
	return args.Error(0)
}

// --- Mock ReconciliationRepository ---
type MockReconciliationRepository struct {
	mock.Mock
}

var _ portsrepo.ReconciliationRepository = (*MockReconciliationRepository)(nil)

func (m *MockReconciliationRepository) CreateSession(ctx context.Context, session domain.ReconciliationSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockReconciliationRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationRepository) FindPendingSessionByBankAccount(ctx context.Context, bankAccountID string) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationRepository) ListSessionsByBankAccount(ctx context.Context, bankAccountID string) ([]domain.ReconciliationSession, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationSession), args.Error(1)
}

func (m *MockReconciliationRepository) UpdateSessionWindow(ctx context.Context, sessionID string, endDate time.Time, statementBalance decimal.Decimal, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, sessionID, endDate, statementBalance, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockReconciliationRepository) CompleteSession(ctx context.Context, sessionID string, completedAt time.Time, updatedByUserID string) error {
	args := m.Called(ctx, sessionID, completedAt, updatedByUserID)
	return args.Error(0)
}

func (m *MockReconciliationRepository) ReopenSession(ctx context.Context, sessionID string, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, sessionID, updatedByUserID, updatedAt)
	return args.Error(0)
}

// --- Mock StatementRepository ---
type MockStatementRepository struct {
	mock.Mock
}

var _ portsrepo.StatementRepository = (*MockStatementRepository)(nil)

func (m *MockStatementRepository) FindStatementRecord(ctx context.Context, accountID, statementNumber, userID string) (*domain.StatementRecord, error) {
	args := m.Called(ctx, accountID, statementNumber, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementRecord), args.Error(1)
}

func (m *MockStatementRepository) InsertStatementRecord(ctx context.Context, record domain.StatementRecord) (*domain.StatementRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementRecord), args.Error(1)
}

func (m *MockStatementRepository) FindByStatementNumber(ctx context.Context, statementNumber, userID string) ([]domain.StatementRecord, error) {
	args := m.Called(ctx, statementNumber, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatementRecord), args.Error(1)
}

func (m *MockStatementRepository) FindByLastFour(ctx context.Context, lastFour, userID string) ([]domain.StatementRecord, error) {
	args := m.Called(ctx, lastFour, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatementRecord), args.Error(1)
}

// --- Mock BankService (as used by StatementService) ---
type MockBankService struct {
	mock.Mock
}

var _ portssvc.BankSvcFacade = (*MockBankService)(nil)

func (m *MockBankService) CreateBankAccount(ctx context.Context, req dto.CreateBankAccountRequest, creatorUserID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankService) GetBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankService) ListBankAccounts(ctx context.Context) ([]domain.BankAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockBankService) ImportBankTransactions(ctx context.Context, req dto.ImportBankTransactionsRequest, userID string) (*dto.ImportBankTransactionsResponse, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ImportBankTransactionsResponse), args.Error(1)
}

func (m *MockBankService) ListBankTransactions(ctx context.Context, bankAccountID string, from, to time.Time, status *domain.BankTransactionStatus) ([]domain.BankTransaction, error) {
	args := m.Called(ctx, bankAccountID, from, to, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankTransaction), args.Error(1)
}

func (m *MockBankService) SetBankTransactionStatus(ctx context.Context, bankTransactionID string, status domain.BankTransactionStatus, userID string) (*domain.BankTransaction, error) {
	args := m.Called(ctx, bankTransactionID, status, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankTransaction), args.Error(1)
}
