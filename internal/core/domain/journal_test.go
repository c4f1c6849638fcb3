package domain_test

import (
	"testing"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestJournalLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.JournalLine
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid debit line",
			line: domain.JournalLine{
				AccountCode: "CASH",
				Debit:       decimal.RequireFromString("400.00"),
				Credit:      decimal.Zero,
			},
			wantErr: false,
		},
		{
			name: "valid credit line",
			line: domain.JournalLine{
				AccountCode: "USER_DEPOSITS",
				Debit:       decimal.Zero,
				Credit:      decimal.RequireFromString("400.00"),
			},
			wantErr: false,
		},
		{
			name: "both sides set",
			line: domain.JournalLine{
				AccountCode: "CASH",
				Debit:       decimal.RequireFromString("10.00"),
				Credit:      decimal.RequireFromString("10.00"),
			},
			wantErr: true,
			errMsg:  "exactly one of debit or credit",
		},
		{
			name: "neither side set",
			line: domain.JournalLine{
				AccountCode: "CASH",
			},
			wantErr: true,
			errMsg:  "exactly one of debit or credit",
		},
		{
			name: "negative debit",
			line: domain.JournalLine{
				AccountCode: "CASH",
				Debit:       decimal.RequireFromString("-5.00"),
			},
			wantErr: true,
			errMsg:  "must be positive",
		},
		{
			name: "missing account reference",
			line: domain.JournalLine{
				Debit: decimal.RequireFromString("5.00"),
			},
			wantErr: true,
			errMsg:  "must reference an account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJournalLine_Side(t *testing.T) {
	debit := domain.JournalLine{Debit: decimal.RequireFromString("1.00")}
	credit := domain.JournalLine{Credit: decimal.RequireFromString("1.00")}

	assert.Equal(t, domain.DebitSide, debit.Side())
	assert.Equal(t, domain.CreditSide, credit.Side())
}

func TestKindMapping_Route(t *testing.T) {
	mapping := domain.KindMapping{
		Kind:              domain.KindAdjustment,
		DebitAccountCode:  "SUSPENSE",
		CreditAccountCode: "USER_DEPOSITS",
	}

	t.Run("positive amount keeps sides", func(t *testing.T) {
		route := mapping.Route(decimal.RequireFromString("50.00"))
		assert.Equal(t, "SUSPENSE", route.DebitAccountCode)
		assert.Equal(t, "USER_DEPOSITS", route.CreditAccountCode)
		assert.Equal(t, "50", route.Amount.String())
	})

	t.Run("negative amount swaps sides and takes absolute value", func(t *testing.T) {
		route := mapping.Route(decimal.RequireFromString("-50.00"))
		assert.Equal(t, "USER_DEPOSITS", route.DebitAccountCode)
		assert.Equal(t, "SUSPENSE", route.CreditAccountCode)
		assert.Equal(t, "50", route.Amount.String())
	})
}

func TestAccountTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		txn     domain.AccountTransaction
		wantErr bool
	}{
		{
			name: "valid deposit",
			txn: domain.AccountTransaction{
				Kind:   domain.KindDeposit,
				Amount: decimal.RequireFromString("250.00"),
			},
			wantErr: false,
		},
		{
			name: "negative adjustment is allowed",
			txn: domain.AccountTransaction{
				Kind:   domain.KindAdjustment,
				Amount: decimal.RequireFromString("-75.00"),
			},
			wantErr: false,
		},
		{
			name: "zero adjustment rejected",
			txn: domain.AccountTransaction{
				Kind:   domain.KindAdjustment,
				Amount: decimal.Zero,
			},
			wantErr: true,
		},
		{
			name: "negative deposit rejected",
			txn: domain.AccountTransaction{
				Kind:   domain.KindDeposit,
				Amount: decimal.RequireFromString("-10.00"),
			},
			wantErr: true,
		},
		{
			name: "negative interest credit allowed on reversal",
			txn: domain.AccountTransaction{
				Kind:       domain.KindInterestCredit,
				Amount:     decimal.RequireFromString("-10.00"),
				IsReversal: true,
			},
			wantErr: false,
		},
		{
			name: "unknown kind rejected",
			txn: domain.AccountTransaction{
				Kind:   domain.TransactionKind("GIFT"),
				Amount: decimal.RequireFromString("10.00"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDayBook_State(t *testing.T) {
	open := domain.DayBook{}
	reconciled := domain.DayBook{IsReconciled: true}
	closed := domain.DayBook{IsReconciled: true, IsClosed: true}

	assert.Equal(t, domain.DayBookOpen, open.State())
	assert.Equal(t, domain.DayBookReconciled, reconciled.State())
	assert.Equal(t, domain.DayBookClosed, closed.State())
}
