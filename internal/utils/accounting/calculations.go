package accounting

import (
	"fmt"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the correct sign to a journal line amount based on the
// account type. This is used in both services and repositories so balance
// math stays consistent.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	amount := line.Amount()
	switch accountType {
	case domain.Asset, domain.Expense:
		if !line.IsDebit() {
			amount = amount.Neg()
		}
	case domain.Liability, domain.Equity, domain.Revenue:
		if line.IsDebit() {
			amount = amount.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' for account ID %s", accountType, line.AccountID)
	}
	return amount, nil
}

// Totals sums the debit and credit sides of a set of lines.
func Totals(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits, credits
}

// ValidateLine checks the structural invariants of a single journal line:
// an account reference and exactly one nonzero, nonnegative side.
func ValidateLine(line domain.JournalLine) error {
	if line.AccountID == "" {
		return fmt.Errorf("journal line is missing an account")
	}
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return fmt.Errorf("journal line amounts must not be negative for account %s", line.AccountID)
	}
	debitSet := line.Debit.IsPositive()
	creditSet := line.Credit.IsPositive()
	if debitSet == creditSet {
		return fmt.Errorf("journal line must set exactly one of debit or credit for account %s", line.AccountID)
	}
	return nil
}

// ValidateBalance checks that lines are present, individually well-formed,
// and that debits equal credits within the balance tolerance.
func ValidateBalance(lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("journal must have at least one line")
	}
	for _, line := range lines {
		if err := ValidateLine(line); err != nil {
			return err
		}
	}
	debits, credits := Totals(lines)
	if debits.Sub(credits).Abs().GreaterThanOrEqual(domain.BalanceTolerance) {
		return fmt.Errorf("journal does not balance: debits %s, credits %s", debits.String(), credits.String())
	}
	return nil
}
