package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

func debitLine(amount int64) domain.JournalLine {
	return domain.JournalLine{AccountID: "acct", Debit: decimal.NewFromInt(amount)}
}

func creditLine(amount int64) domain.JournalLine {
	return domain.JournalLine{AccountID: "acct", Credit: decimal.NewFromInt(amount)}
}

func TestSignedAmount(t *testing.T) {
	testCases := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		expected    int64
	}{
		{"debit to asset is positive", debitLine(100), domain.Asset, 100},
		{"credit to asset is negative", creditLine(100), domain.Asset, -100},
		{"debit to expense is positive", debitLine(100), domain.Expense, 100},
		{"credit to expense is negative", creditLine(100), domain.Expense, -100},
		{"debit to liability is negative", debitLine(100), domain.Liability, -100},
		{"credit to liability is positive", creditLine(100), domain.Liability, 100},
		{"debit to equity is negative", debitLine(100), domain.Equity, -100},
		{"credit to equity is positive", creditLine(100), domain.Equity, 100},
		{"debit to revenue is negative", debitLine(100), domain.Revenue, -100},
		{"credit to revenue is positive", creditLine(100), domain.Revenue, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := accounting.SignedAmount(tc.line, tc.accountType)
			require.NoError(t, err)
			assert.True(t, amount.Equal(decimal.NewFromInt(tc.expected)), "expected %d, got %s", tc.expected, amount)
		})
	}
}

func TestSignedAmount_UnknownAccountType(t *testing.T) {
	_, err := accounting.SignedAmount(debitLine(100), domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestTotals(t *testing.T) {
	debits, credits := accounting.Totals([]domain.JournalLine{
		debitLine(100),
		debitLine(50),
		creditLine(150),
	})
	assert.True(t, debits.Equal(decimal.NewFromInt(150)))
	assert.True(t, credits.Equal(decimal.NewFromInt(150)))
}

func TestValidateLine(t *testing.T) {
	assert.NoError(t, accounting.ValidateLine(debitLine(100)))
	assert.NoError(t, accounting.ValidateLine(creditLine(100)))

	assert.Error(t, accounting.ValidateLine(domain.JournalLine{Debit: decimal.NewFromInt(100)}), "missing account")
	assert.Error(t, accounting.ValidateLine(domain.JournalLine{AccountID: "acct"}), "both sides zero")
	assert.Error(t, accounting.ValidateLine(domain.JournalLine{
		AccountID: "acct",
		Debit:     decimal.NewFromInt(100),
		Credit:    decimal.NewFromInt(100),
	}), "both sides set")
	assert.Error(t, accounting.ValidateLine(domain.JournalLine{
		AccountID: "acct",
		Debit:     decimal.NewFromInt(-100),
	}), "negative amount")
}

func TestValidateBalance(t *testing.T) {
	assert.Error(t, accounting.ValidateBalance(nil), "empty journal")

	assert.NoError(t, accounting.ValidateBalance([]domain.JournalLine{debitLine(100), creditLine(100)}))

	assert.Error(t, accounting.ValidateBalance([]domain.JournalLine{debitLine(100), creditLine(99)}))
}

func TestValidateBalance_Tolerance(t *testing.T) {
	// A rounding residue under a cent still balances.
	within := []domain.JournalLine{
		{AccountID: "a", Debit: decimal.RequireFromString("100.005")},
		{AccountID: "b", Credit: decimal.NewFromInt(100)},
	}
	assert.NoError(t, accounting.ValidateBalance(within))

	// Exactly at the tolerance does not.
	atEdge := []domain.JournalLine{
		{AccountID: "a", Debit: decimal.RequireFromString("100.01")},
		{AccountID: "b", Credit: decimal.NewFromInt(100)},
	}
	assert.Error(t, accounting.ValidateBalance(atEdge))
}
