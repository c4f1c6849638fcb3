package accounting

import (
	"fmt"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NormalSide returns the side on which an account type normally carries its
// balance. ASSET/EXPENSE balances live on the debit side; LIABILITY, EQUITY
// and INCOME balances live on the credit side.
func NormalSide(accountType domain.AccountType) (domain.EntrySide, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return domain.DebitSide, nil
	case domain.Liability, domain.Equity, domain.Income:
		return domain.CreditSide, nil
	default:
		return "", fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// NetBalance presents aggregated debit and credit totals on the account's
// normal side: debit-credit for ASSET/EXPENSE, credit-debit otherwise.
// Unknown account types fall back to debit-credit.
func NetBalance(accountType domain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	side, err := NormalSide(accountType)
	if err != nil || side == domain.DebitSide {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// EntryTotals sums the debit and credit sides of a set of journal lines.
func EntryTotals(lines []domain.JournalLine) (debit, credit decimal.Decimal) {
	debit = decimal.Zero
	credit = decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// ValidateEntryBalance checks the balanced-entry invariant for a set of
// journal lines: at least two lines, each line one-sided positive, and total
// debits exactly equal to total credits.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines")
	}
	for i, l := range lines {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("journal line %d invalid: %w", i, err)
		}
	}
	debit, credit := EntryTotals(lines)
	if debit.IsZero() {
		return fmt.Errorf("journal entry must move a nonzero amount")
	}
	if !debit.Equal(credit) {
		return fmt.Errorf("journal entry does not balance: debits %s, credits %s", debit.String(), credit.String())
	}
	return nil
}
