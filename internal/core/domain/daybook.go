package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayBookState names the position in the day book lifecycle.
type DayBookState string

const (
	DayBookOpen       DayBookState = "OPEN"
	DayBookReconciled DayBookState = "RECONCILED"
	DayBookClosed     DayBookState = "CLOSED"
)

// DayBook aggregates one calendar date's cash-affecting postings and gates
// closing behind a physical cash count. Lifecycle is strictly forward:
// OPEN -> RECONCILED -> CLOSED. A closed book accepts no further
// transactions for its date.
type DayBook struct {
	DayBookID           string          `json:"dayBookID"`  // Primary Key (UUID)
	BookNumber          string          `json:"bookNumber"` // Unique (DB<YYYYMMDD>-<seq>)
	TransactionDate     time.Time       `json:"transactionDate"`
	OpeningBalance      decimal.Decimal `json:"openingBalance"`
	ClosingBalance      decimal.Decimal `json:"closingBalance"`
	SystemCashBalance   decimal.Decimal `json:"systemCashBalance"`   // Sum of cash-affecting postings
	PhysicalCashBalance decimal.Decimal `json:"physicalCashBalance"` // Entered at reconciliation
	DiscrepancyAmount   decimal.Decimal `json:"discrepancyAmount"`   // physical - system
	ReconciliationNotes string          `json:"reconciliationNotes"`
	IsReconciled        bool            `json:"isReconciled"`
	IsClosed            bool            `json:"isClosed"`
	ClosedBy            string          `json:"closedBy"` // StaffID, set on close
	ClosedAt            *time.Time      `json:"closedAt,omitempty"`
	AuditFields
}

// State derives the lifecycle position from the flags.
func (b DayBook) State() DayBookState {
	switch {
	case b.IsClosed:
		return DayBookClosed
	case b.IsReconciled:
		return DayBookReconciled
	default:
		return DayBookOpen
	}
}
