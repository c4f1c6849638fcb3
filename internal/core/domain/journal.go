package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	EntryDraft    EntryStatus = "DRAFT" // permitted by the schema; this engine posts synchronously
	EntryPosted   EntryStatus = "POSTED"
	EntryReversed EntryStatus = "REVERSED"
)

// EntrySide names the side of a journal line.
type EntrySide string

const (
	DebitSide  EntrySide = "DEBIT"
	CreditSide EntrySide = "CREDIT"
)

// JournalEntry is a balanced set of debit/credit postings recorded as one
// atomic unit. EntryNumber is the stable external identifier surfaced in
// reports (JE<YYYYMMDD>-<seq>), never reused once assigned.
type JournalEntry struct {
	EntryID           string      `json:"entryID"`     // Primary Key (UUID)
	EntryNumber       string      `json:"entryNumber"` // Unique, sequential per date
	EntryDate         time.Time   `json:"entryDate"`
	Narration         string      `json:"narration"`
	Reference         string      `json:"reference"` // External correlation reference (nullable)
	Status            EntryStatus `json:"status"`
	DayBookID         string      `json:"dayBookID"`         // Nullable FK -> day_books
	ReversesEntryID   string      `json:"reversesEntryID"`   // Set on a compensating entry
	ReversedByEntryID string      `json:"reversedByEntryID"` // Set on the original once reversed
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"` // Loaded with the entry on reads
}

// JournalLine is a single posting within an entry: exactly one of Debit or
// Credit is nonzero, never both.
type JournalLine struct {
	LineID      string          `json:"lineID"`  // Primary Key (UUID)
	EntryID     string          `json:"entryID"` // FK -> journal_entries
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	AuditFields
}

// Side returns which side of the entry the line posts to.
func (l JournalLine) Side() EntrySide {
	if l.Debit.IsPositive() {
		return DebitSide
	}
	return CreditSide
}

// Validate checks the one-sided-positive invariant for a line.
func (l JournalLine) Validate() error {
	if l.AccountCode == "" && l.AccountID == "" {
		return errors.New("journal line must reference an account")
	}
	debitSet := !l.Debit.IsZero()
	creditSet := !l.Credit.IsZero()
	if debitSet == creditSet {
		return errors.New("journal line must set exactly one of debit or credit")
	}
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return errors.New("journal line amounts must be positive")
	}
	return nil
}
