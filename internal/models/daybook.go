package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayBook represents one calendar date's cash book row.
type DayBook struct {
	DayBookID           string          `db:"day_book_id"`
	BookNumber          string          `db:"book_number"` // Unique (DB<YYYYMMDD>-<seq>)
	TransactionDate     time.Time       `db:"transaction_date"`
	OpeningBalance      decimal.Decimal `db:"opening_balance"`
	ClosingBalance      decimal.Decimal `db:"closing_balance"`
	SystemCashBalance   decimal.Decimal `db:"system_cash_balance"`
	PhysicalCashBalance decimal.Decimal `db:"physical_cash_balance"`
	DiscrepancyAmount   decimal.Decimal `db:"discrepancy_amount"`
	ReconciliationNotes string          `db:"reconciliation_notes"` // Nullable
	IsReconciled        bool            `db:"is_reconciled"`
	IsClosed            bool            `db:"is_closed"`
	ClosedBy            string          `db:"closed_by"` // Nullable
	ClosedAt            *time.Time      `db:"closed_at"`
	AuditFields
}
