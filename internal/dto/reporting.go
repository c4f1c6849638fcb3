package dto

import (
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse is one chart account's aggregated postings.
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"accountID"`
	AccountCode string             `json:"accountCode"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
	NetBalance  decimal.Decimal    `json:"netBalance"`
}

// TrialBalanceResponse is the full trial balance report.
type TrialBalanceResponse struct {
	AsOf        time.Time                 `json:"asOf"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
	IsBalanced  bool                      `json:"isBalanced"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance to its response DTO.
func ToTrialBalanceResponse(asOf time.Time, tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: r.AccountType,
			Debit:       r.Debit,
			Credit:      r.Credit,
			NetBalance:  r.NetBalance,
		}
	}
	return TrialBalanceResponse{
		AsOf:        asOf,
		Rows:        rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
		IsBalanced:  tb.TotalDebit.Equal(tb.TotalCredit),
	}
}

// AccountActivityResponse sums one chart account's posted sides over a period.
type AccountActivityResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Net         decimal.Decimal `json:"net"`
}

// ToAccountActivityResponse converts a domain.AccountActivity to its response DTO.
func ToAccountActivityResponse(from, to time.Time, a *domain.AccountActivity) AccountActivityResponse {
	return AccountActivityResponse{
		AccountID:   a.AccountID,
		AccountCode: a.AccountCode,
		From:        from,
		To:          to,
		Debit:       a.Debit,
		Credit:      a.Credit,
		Net:         a.Net,
	}
}
