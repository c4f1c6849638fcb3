package domain_test

import (
	"testing"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every kind must have an entry in each per-concern table; a kind added
// without its table rows should fail here, not at posting time.
func TestKindTablesAreComplete(t *testing.T) {
	for _, kind := range domain.AllTransactionKinds {
		kind := kind
		t.Run(string(kind), func(t *testing.T) {
			assert.True(t, domain.IsValidTransactionKind(kind))

			_, err := domain.SignedDelta(kind, decimal.NewFromInt(1))
			assert.NoError(t, err, "balance sign table missing %s", kind)

			_, _, err = domain.InverseOf(kind)
			assert.NoError(t, err, "inverse table missing %s", kind)

			_, err = domain.CashDelta(kind, decimal.NewFromInt(1))
			assert.NoError(t, err, "cash effect table missing %s", kind)
		})
	}
}

func TestKindTablesRejectUnknownKind(t *testing.T) {
	unknown := domain.TransactionKind("LOAN_DISBURSEMENT")

	assert.False(t, domain.IsValidTransactionKind(unknown))

	_, err := domain.SignedDelta(unknown, decimal.NewFromInt(10))
	assert.Error(t, err)

	_, _, err = domain.InverseOf(unknown)
	assert.Error(t, err)

	_, err = domain.CashDelta(unknown, decimal.NewFromInt(10))
	assert.Error(t, err)
}

func TestSignedDelta(t *testing.T) {
	amount := decimal.RequireFromString("125.50")

	tests := []struct {
		kind   domain.TransactionKind
		amount decimal.Decimal
		want   string
	}{
		{domain.KindDeposit, amount, "125.5"},
		{domain.KindInterestCredit, amount, "125.5"},
		{domain.KindTransferIn, amount, "125.5"},
		{domain.KindWithdrawal, amount, "-125.5"},
		{domain.KindFeeDebit, amount, "-125.5"},
		{domain.KindTransferOut, amount, "-125.5"},
		{domain.KindAdjustment, decimal.RequireFromString("-40.25"), "-40.25"},
		{domain.KindAdjustment, decimal.RequireFromString("40.25"), "40.25"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.amount.String(), func(t *testing.T) {
			got, err := domain.SignedDelta(tt.kind, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestRequiresBalanceCheck(t *testing.T) {
	withdrawalClass := map[domain.TransactionKind]bool{
		domain.KindDeposit:        false,
		domain.KindWithdrawal:     true,
		domain.KindInterestCredit: false,
		domain.KindFeeDebit:       true,
		domain.KindAdjustment:     false,
		domain.KindTransferIn:     false,
		domain.KindTransferOut:    true,
	}

	for kind, want := range withdrawalClass {
		assert.Equal(t, want, domain.RequiresBalanceCheck(kind), "kind %s", kind)
	}
}

func TestInverseOf(t *testing.T) {
	tests := []struct {
		kind       domain.TransactionKind
		wantKind   domain.TransactionKind
		wantNegate bool
	}{
		{domain.KindDeposit, domain.KindWithdrawal, false},
		{domain.KindWithdrawal, domain.KindDeposit, false},
		{domain.KindTransferIn, domain.KindTransferOut, false},
		{domain.KindTransferOut, domain.KindTransferIn, false},
		{domain.KindInterestCredit, domain.KindInterestCredit, true},
		{domain.KindFeeDebit, domain.KindFeeDebit, true},
		{domain.KindAdjustment, domain.KindAdjustment, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			gotKind, gotNegate, err := domain.InverseOf(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, gotKind)
			assert.Equal(t, tt.wantNegate, gotNegate)
		})
	}
}

// Reversal round trip: applying a kind then its inverse must net to zero on
// the account balance.
func TestInverseNetsToZero(t *testing.T) {
	amount := decimal.RequireFromString("300.00")

	for _, kind := range domain.AllTransactionKinds {
		kind := kind
		t.Run(string(kind), func(t *testing.T) {
			original, err := domain.SignedDelta(kind, amount)
			require.NoError(t, err)

			invKind, negate, err := domain.InverseOf(kind)
			require.NoError(t, err)

			invAmount := amount
			if negate {
				invAmount = amount.Neg()
			}
			compensating, err := domain.SignedDelta(invKind, invAmount)
			require.NoError(t, err)

			assert.True(t, original.Add(compensating).IsZero(),
				"%s then %s nets to %s", kind, invKind, original.Add(compensating))
		})
	}
}

func TestCashDelta(t *testing.T) {
	amount := decimal.RequireFromString("90.00")

	tests := []struct {
		kind domain.TransactionKind
		want string
	}{
		{domain.KindDeposit, "90"},
		{domain.KindWithdrawal, "-90"},
		{domain.KindInterestCredit, "0"},
		{domain.KindFeeDebit, "0"},
		{domain.KindAdjustment, "0"},
		{domain.KindTransferIn, "0"},
		{domain.KindTransferOut, "0"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := domain.CashDelta(tt.kind, amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
