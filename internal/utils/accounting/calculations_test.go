package accounting

import (
	"testing"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitLine(code string, amount string) domain.JournalLine {
	return domain.JournalLine{
		LineID:      "line-" + code,
		AccountID:   "acc-" + code,
		AccountCode: code,
		Debit:       decimal.RequireFromString(amount),
		Credit:      decimal.Zero,
	}
}

func creditLine(code string, amount string) domain.JournalLine {
	return domain.JournalLine{
		LineID:      "line-" + code,
		AccountID:   "acc-" + code,
		AccountCode: code,
		Debit:       decimal.Zero,
		Credit:      decimal.RequireFromString(amount),
	}
}

func TestNormalSide(t *testing.T) {
	testCases := []struct {
		accountType domain.AccountType
		expected    domain.EntrySide
	}{
		{domain.Asset, domain.DebitSide},
		{domain.Expense, domain.DebitSide},
		{domain.Liability, domain.CreditSide},
		{domain.Equity, domain.CreditSide},
		{domain.Income, domain.CreditSide},
	}

	for _, tc := range testCases {
		t.Run(string(tc.accountType), func(t *testing.T) {
			side, err := NormalSide(tc.accountType)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, side)
		})
	}

	_, err := NormalSide(domain.AccountType("BOGUS"))
	assert.Error(t, err, "unknown account type should error")
}

func TestNetBalance(t *testing.T) {
	debit := decimal.RequireFromString("150.00")
	credit := decimal.RequireFromString("40.00")

	// Debit-normal accounts present debit minus credit.
	assert.True(t, NetBalance(domain.Asset, debit, credit).Equal(decimal.RequireFromString("110.00")))
	// Credit-normal accounts present credit minus debit.
	assert.True(t, NetBalance(domain.Liability, debit, credit).Equal(decimal.RequireFromString("-110.00")))
	assert.True(t, NetBalance(domain.Income, credit, debit).Equal(decimal.RequireFromString("110.00")))
}

func TestValidateEntryBalance(t *testing.T) {
	t.Run("balanced entry passes", func(t *testing.T) {
		lines := []domain.JournalLine{
			debitLine("CASH", "500.00"),
			creditLine("USER_DEPOSITS", "500.00"),
		}
		assert.NoError(t, ValidateEntryBalance(lines))
	})

	t.Run("multi-line balanced entry passes", func(t *testing.T) {
		lines := []domain.JournalLine{
			debitLine("CASH", "500.00"),
			creditLine("USER_DEPOSITS", "450.00"),
			creditLine("FEE_INCOME", "50.00"),
		}
		assert.NoError(t, ValidateEntryBalance(lines))
	})

	t.Run("unbalanced entry fails", func(t *testing.T) {
		lines := []domain.JournalLine{
			debitLine("CASH", "500.00"),
			creditLine("USER_DEPOSITS", "499.99"),
		}
		err := ValidateEntryBalance(lines)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not balance")
	})

	t.Run("single line fails", func(t *testing.T) {
		lines := []domain.JournalLine{debitLine("CASH", "500.00")}
		assert.Error(t, ValidateEntryBalance(lines))
	})

	t.Run("zero amount entry fails", func(t *testing.T) {
		lines := []domain.JournalLine{
			debitLine("CASH", "500.00"),
			creditLine("USER_DEPOSITS", "500.00"),
		}
		lines[0].Debit = decimal.Zero
		lines[1].Credit = decimal.Zero
		assert.Error(t, ValidateEntryBalance(lines))
	})

	t.Run("two-sided line fails", func(t *testing.T) {
		bad := debitLine("CASH", "100.00")
		bad.Credit = decimal.RequireFromString("100.00")
		lines := []domain.JournalLine{bad, creditLine("USER_DEPOSITS", "100.00")}
		err := ValidateEntryBalance(lines)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid")
	})
}

func TestEntryTotals(t *testing.T) {
	lines := []domain.JournalLine{
		debitLine("CASH", "100.00"),
		debitLine("SUSPENSE", "25.50"),
		creditLine("USER_DEPOSITS", "125.50"),
	}
	debit, credit := EntryTotals(lines)
	assert.True(t, debit.Equal(decimal.RequireFromString("125.50")))
	assert.True(t, credit.Equal(decimal.RequireFromString("125.50")))
}
