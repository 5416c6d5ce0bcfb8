package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

func TestJournalStatusTransitions(t *testing.T) {
	testCases := []struct {
		from    domain.JournalStatus
		to      domain.JournalStatus
		allowed bool
	}{
		{domain.Draft, domain.Posted, true},
		{domain.Draft, domain.Reversed, false},
		{domain.Draft, domain.Draft, false},
		{domain.Posted, domain.Draft, true},
		{domain.Posted, domain.Reversed, true},
		{domain.Posted, domain.Posted, false},
		{domain.Reversed, domain.Draft, false},
		{domain.Reversed, domain.Posted, false},
		{domain.Reversed, domain.Reversed, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestJournalIsBalanced(t *testing.T) {
	balanced := domain.Journal{
		TotalDebits:  decimal.NewFromInt(100),
		TotalCredits: decimal.NewFromInt(100),
	}
	assert.True(t, balanced.IsBalanced())

	withinTolerance := domain.Journal{
		TotalDebits:  decimal.RequireFromString("100.005"),
		TotalCredits: decimal.NewFromInt(100),
	}
	assert.True(t, withinTolerance.IsBalanced())

	atTolerance := domain.Journal{
		TotalDebits:  decimal.RequireFromString("100.01"),
		TotalCredits: decimal.NewFromInt(100),
	}
	assert.False(t, atTolerance.IsBalanced())
}

func TestJournalPeriodKey(t *testing.T) {
	journal := domain.Journal{JournalDate: time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, "2025-06", journal.PeriodKey())

	january := domain.Journal{JournalDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2024-01", january.PeriodKey())
}

func TestJournalLineSides(t *testing.T) {
	debit := domain.JournalLine{Debit: decimal.NewFromInt(75)}
	assert.True(t, debit.IsDebit())
	assert.True(t, debit.Amount().Equal(decimal.NewFromInt(75)))

	credit := domain.JournalLine{Credit: decimal.NewFromInt(40)}
	assert.False(t, credit.IsDebit())
	assert.True(t, credit.Amount().Equal(decimal.NewFromInt(40)))
}
