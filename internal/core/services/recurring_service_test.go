package services_test

import (
	"context"
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

type RecurringServiceTestSuite struct {
	suite.Suite
	mockRecurringRepo *MockRecurringJournalRepository
	mockJournalRepo   *MockJournalRepository
	service           portssvc.RecurringSvcFacade

	userID        string
	template      *domain.Journal
	templateLines []domain.JournalLine
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.mockRecurringRepo = new(MockRecurringJournalRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewRecurringService(suite.mockRecurringRepo, suite.mockJournalRepo)

	suite.userID = uuid.NewString()
	templateID := uuid.NewString()
	suite.template = &domain.Journal{
		JournalID:    templateID,
		Memo:         "Monthly rent",
		JournalDate:  time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		Source:       "MANUAL",
		Status:       domain.Draft,
		TotalDebits:  decimal.NewFromInt(1200),
		TotalCredits: decimal.NewFromInt(1200),
	}
	suite.templateLines = []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: templateID, AccountID: uuid.NewString(), Debit: decimal.NewFromInt(1200)},
		{LineID: uuid.NewString(), JournalID: templateID, AccountID: uuid.NewString(), Credit: decimal.NewFromInt(1200)},
	}
}

func (suite *RecurringServiceTestSuite) monthlySchedule(dayOfMonth int, lastGenerated *time.Time) domain.RecurringJournal {
	return domain.RecurringJournal{
		RecurringJournalID: uuid.NewString(),
		TemplateJournalID:  suite.template.JournalID,
		Frequency:          domain.FrequencyMonthly,
		StartDate:          time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		DayOfMonth:         &dayOfMonth,
		LastGenerated:      lastGenerated,
		IsActive:           true,
	}
}

func (suite *RecurringServiceTestSuite) TestCreateRecurringJournal_Success() {
	suite.mockJournalRepo.On("FindJournalByID", mock.Anything, suite.template.JournalID).Return(suite.template, nil).Once()
	suite.mockRecurringRepo.On("SaveRecurringJournal", mock.Anything, mock.MatchedBy(func(s domain.RecurringJournal) bool {
		return s.IsActive && s.TemplateJournalID == suite.template.JournalID
	})).Return(nil).Once()

	schedule, err := suite.service.CreateRecurringJournal(context.Background(), dto.CreateRecurringJournalRequest{
		TemplateJournalID: suite.template.JournalID,
		Frequency:         domain.FrequencyMonthly,
		StartDate:         time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.True(schedule.IsActive)
	suite.Nil(schedule.LastGenerated)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestCreateRecurringJournal_MissingTemplateRejected() {
	suite.mockJournalRepo.On("FindJournalByID", mock.Anything, mock.Anything).Return(nil, apperrors.NewNotFoundError("journal not found")).Once()

	_, err := suite.service.CreateRecurringJournal(context.Background(), dto.CreateRecurringJournalRequest{
		TemplateJournalID: uuid.NewString(),
		Frequency:         domain.FrequencyDaily,
		StartDate:         time.Now(),
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecurringServiceTestSuite) TestCreateRecurringJournal_EndBeforeStartRejected() {
	suite.mockJournalRepo.On("FindJournalByID", mock.Anything, suite.template.JournalID).Return(suite.template, nil).Once()

	end := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	_, err := suite.service.CreateRecurringJournal(context.Background(), dto.CreateRecurringJournalRequest{
		TemplateJournalID: suite.template.JournalID,
		Frequency:         domain.FrequencyDaily,
		StartDate:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           &end,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveRecurringJournal", mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestGenerateDueJournals_LastDayOfShortMonth() {
	// Day-31 schedule started end of January; ticking on March 1st must have
	// produced Jan 31 and Feb 28.
	schedule := suite.monthlySchedule(31, nil)
	asOf := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	suite.mockRecurringRepo.On("ListRecurringJournals", mock.Anything, true).Return([]domain.RecurringJournal{schedule}, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", mock.Anything, suite.template.JournalID).Return(suite.template, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", mock.Anything, suite.template.JournalID).Return(suite.templateLines, nil).Once()

	var occurrences []time.Time
	suite.mockRecurringRepo.On("GenerateOccurrence", mock.Anything, schedule.RecurringJournalID, mock.Anything, mock.AnythingOfType("time.Time"), mock.MatchedBy(func(j domain.Journal) bool {
		return j.Status == domain.Draft && j.Source == "RECURRING" && j.Memo == suite.template.Memo
	}), mock.AnythingOfType("[]domain.JournalLine")).Run(func(args mock.Arguments) {
		occurrences = append(occurrences, args.Get(3).(time.Time))
	}).Return(nil).Twice()

	generated, err := suite.service.GenerateDueJournals(context.Background(), asOf, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, generated)
	suite.Require().Len(occurrences, 2)
	suite.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), occurrences[0])
	suite.Equal(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), occurrences[1])
}

func (suite *RecurringServiceTestSuite) TestGenerateDueJournals_SecondTickSameDayIsIdempotent() {
	last := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	schedule := suite.monthlySchedule(31, &last)
	asOf := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	suite.mockRecurringRepo.On("ListRecurringJournals", mock.Anything, true).Return([]domain.RecurringJournal{schedule}, nil).Once()

	generated, err := suite.service.GenerateDueJournals(context.Background(), asOf, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, generated)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "GenerateOccurrence", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestGenerateDueJournals_WeeklyUsesDayOfWeek() {
	day := 1 // Monday
	schedule := domain.RecurringJournal{
		RecurringJournalID: uuid.NewString(),
		TemplateJournalID:  suite.template.JournalID,
		Frequency:          domain.FrequencyWeekly,
		StartDate:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), // a Sunday
		DayOfWeek:          &day,
		IsActive:           true,
	}
	asOf := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	suite.mockRecurringRepo.On("ListRecurringJournals", mock.Anything, true).Return([]domain.RecurringJournal{schedule}, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", mock.Anything, suite.template.JournalID).Return(suite.template, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", mock.Anything, suite.template.JournalID).Return(suite.templateLines, nil).Once()

	var occurrences []time.Time
	suite.mockRecurringRepo.On("GenerateOccurrence", mock.Anything, schedule.RecurringJournalID, mock.Anything, mock.AnythingOfType("time.Time"), mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		occurrences = append(occurrences, args.Get(3).(time.Time))
	}).Return(nil).Twice()

	generated, err := suite.service.GenerateDueJournals(context.Background(), asOf, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, generated)
	for _, occ := range occurrences {
		suite.Equal(time.Monday, occ.Weekday())
	}
}

func (suite *RecurringServiceTestSuite) TestGenerateDueJournals_StopsAfterEndDate() {
	end := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	schedule := domain.RecurringJournal{
		RecurringJournalID: uuid.NewString(),
		TemplateJournalID:  suite.template.JournalID,
		Frequency:          domain.FrequencyDaily,
		StartDate:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            &end,
		IsActive:           true,
	}
	asOf := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	suite.mockRecurringRepo.On("ListRecurringJournals", mock.Anything, true).Return([]domain.RecurringJournal{schedule}, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", mock.Anything, suite.template.JournalID).Return(suite.template, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", mock.Anything, suite.template.JournalID).Return(suite.templateLines, nil).Once()
	suite.mockRecurringRepo.On("GenerateOccurrence", mock.Anything, schedule.RecurringJournalID, mock.Anything, mock.AnythingOfType("time.Time"), mock.Anything, mock.Anything).Return(nil).Times(3)

	generated, err := suite.service.GenerateDueJournals(context.Background(), asOf, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(3, generated)
}

func (suite *RecurringServiceTestSuite) TestGenerateDueJournals_ConcurrentTickLoses() {
	schedule := suite.monthlySchedule(15, nil)
	asOf := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	suite.mockRecurringRepo.On("ListRecurringJournals", mock.Anything, true).Return([]domain.RecurringJournal{schedule}, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", mock.Anything, suite.template.JournalID).Return(suite.template, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", mock.Anything, suite.template.JournalID).Return(suite.templateLines, nil).Once()
	// Another tick advanced the watermark first: the guarded insert conflicts.
	suite.mockRecurringRepo.On("GenerateOccurrence", mock.Anything, schedule.RecurringJournalID, mock.Anything, mock.AnythingOfType("time.Time"), mock.Anything, mock.Anything).Return(apperrors.ErrConflict).Once()

	generated, err := suite.service.GenerateDueJournals(context.Background(), asOf, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(0, generated)
	suite.mockRecurringRepo.AssertNumberOfCalls(suite.T(), "GenerateOccurrence", 1)
}

func (suite *RecurringServiceTestSuite) TestGenerateDueJournals_BrokenScheduleDoesNotStarveOthers() {
	broken := suite.monthlySchedule(15, nil)
	healthy := domain.RecurringJournal{
		RecurringJournalID: uuid.NewString(),
		TemplateJournalID:  suite.template.JournalID,
		Frequency:          domain.FrequencyDaily,
		StartDate:          time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC),
		IsActive:           true,
	}
	asOf := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	suite.mockRecurringRepo.On("ListRecurringJournals", mock.Anything, true).Return([]domain.RecurringJournal{broken, healthy}, nil).Once()
	// The broken schedule's template is gone.
	suite.mockJournalRepo.On("FindJournalByID", mock.Anything, broken.TemplateJournalID).Return(nil, apperrors.NewNotFoundError("journal not found")).Once()

	healthyTemplate := *suite.template
	healthyTemplate.JournalID = healthy.TemplateJournalID
	suite.mockJournalRepo.On("FindJournalByID", mock.Anything, healthy.TemplateJournalID).Return(&healthyTemplate, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", mock.Anything, healthy.TemplateJournalID).Return(suite.templateLines, nil).Once()
	suite.mockRecurringRepo.On("GenerateOccurrence", mock.Anything, healthy.RecurringJournalID, mock.Anything, mock.AnythingOfType("time.Time"), mock.Anything, mock.Anything).Return(nil).Twice()

	generated, err := suite.service.GenerateDueJournals(context.Background(), asOf, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(2, generated)
}

func (suite *RecurringServiceTestSuite) TestPatchRecurringJournal_EndBeforePatchedStartRejected() {
	schedule := suite.monthlySchedule(15, nil)

	suite.mockRecurringRepo.On("FindRecurringJournalByID", mock.Anything, schedule.RecurringJournalID).Return(&schedule, nil).Once()

	newStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newEnd := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := suite.service.PatchRecurringJournal(context.Background(), schedule.RecurringJournalID, dto.PatchRecurringJournalRequest{
		StartDate: &newStart,
		EndDate:   &newEnd,
	}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "PatchRecurringJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecurringService(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
