package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one chart account's aggregated postings as of a date.
// The read side of this subsystem: rows are derived from POSTED journal
// lines and never mutated here.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	// NetBalance is presented on the account's normal side:
	// debit-credit for ASSET/EXPENSE, credit-debit otherwise.
	NetBalance decimal.Decimal `json:"netBalance"`
}

// TrialBalance is the full report; a balanced ledger has TotalDebit equal to
// TotalCredit exactly.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// AccountActivity sums one chart account's posted sides over a period.
type AccountActivity struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	// Net is debit-credit for ASSET/EXPENSE accounts, credit-debit otherwise.
	Net decimal.Decimal `json:"net"`
}
