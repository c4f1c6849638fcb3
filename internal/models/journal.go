package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry represents a single balanced financial event.
type JournalEntry struct {
	EntryID           string      `db:"entry_id"`
	EntryNumber       string      `db:"entry_number"` // Unique (JE<YYYYMMDD>-<seq>)
	EntryDate         time.Time   `db:"entry_date"`
	Narration         string      `db:"narration"`
	Reference         string      `db:"reference"`            // Nullable
	Status            EntryStatus `db:"status"`               // Default: POSTED
	DayBookID         string      `db:"day_book_id"`          // Nullable FK
	ReversesEntryID   string      `db:"reverses_entry_id"`    // Nullable
	ReversedByEntryID string      `db:"reversed_by_entry_id"` // Nullable
	AuditFields
}

// JournalLine represents one posting side within a journal entry.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"account_code"` // Denormalized for reporting
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	AuditFields
}
