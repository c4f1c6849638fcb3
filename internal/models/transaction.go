package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTransaction represents one user-facing ledger leg. Rows are
// immutable after insert except for journal linkage and reversal linkage.
type AccountTransaction struct {
	TransactionID     string          `db:"transaction_id"`
	TransactionNumber string          `db:"transaction_number"` // Unique (TXN<YYYYMMDD>-<seq>)
	UserAccountID     string          `db:"user_account_id"`
	Kind              string          `db:"kind"`
	Amount            decimal.Decimal `db:"amount"`
	RunningBalance    decimal.Decimal `db:"running_balance"`
	Description       string          `db:"description"`
	Reference         string          `db:"reference"`        // Nullable
	JournalEntryID    string          `db:"journal_entry_id"` // Nullable, set once the entry posts
	JournalPending    bool            `db:"journal_pending"`
	DayBookID         string          `db:"day_book_id"`

	IsReversal              bool       `db:"is_reversal"`
	ReversesTransactionID   string     `db:"reverses_transaction_id"`    // Nullable
	ReversedByTransactionID string     `db:"reversed_by_transaction_id"` // Nullable
	ReversedAt              *time.Time `db:"reversed_at"`
	ReversalReason          string     `db:"reversal_reason"` // Nullable

	AuditFields
}
