package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AccountTransaction is the user-facing ledger leg of a financial event.
// Rows are immutable after creation; corrections are new reversal
// transactions. The only post-creation writes are the reversal linkage on
// the original and the journal linkage once the entry posts.
type AccountTransaction struct {
	TransactionID     string          `json:"transactionID"`     // Primary Key (UUID)
	TransactionNumber string          `json:"transactionNumber"` // Unique, sequential per date (TXN<YYYYMMDD>-<seq>)
	UserAccountID     string          `json:"userAccountID"`     // FK -> user_accounts
	Kind              TransactionKind `json:"kind"`
	Amount            decimal.Decimal `json:"amount"`         // Positive; signed only for ADJUSTMENT
	RunningBalance    decimal.Decimal `json:"runningBalance"` // Account balance snapshot after this transaction
	Description       string          `json:"description"`
	Reference         string          `json:"reference"`      // Shared token for transfer pairs (TRF-<hex>)
	JournalEntryID    string          `json:"journalEntryID"` // Nullable back-reference, set once the entry posts
	JournalPending    bool            `json:"journalPending"` // True until the journal entry posts (operator-visible)
	DayBookID         string          `json:"dayBookID"`      // FK -> day_books (the date's book)

	IsReversal              bool       `json:"isReversal"`
	ReversesTransactionID   string     `json:"reversesTransactionID"`   // Set on a compensating transaction
	ReversedByTransactionID string     `json:"reversedByTransactionID"` // Set on the original once reversed
	ReversedAt              *time.Time `json:"reversedAt,omitempty"`
	ReversalReason          string     `json:"reversalReason"`

	AuditFields
}

// IsReversed reports whether a compensating transaction exists for this one.
func (t AccountTransaction) IsReversed() bool {
	return t.ReversedByTransactionID != ""
}

// Validate checks the amount invariants for the transaction's kind.
// Reversal compensators may carry negative amounts for the keep-kind kinds
// (INTEREST_CREDIT, FEE_DEBIT, ADJUSTMENT).
func (t AccountTransaction) Validate() error {
	if !IsValidTransactionKind(t.Kind) {
		return errors.New("unknown transaction kind")
	}
	if t.Amount.IsZero() {
		return errors.New("transaction amount must be nonzero")
	}
	if t.Kind == KindAdjustment {
		return nil
	}
	if t.Amount.IsNegative() && !t.IsReversal {
		return errors.New("transaction amount must be positive")
	}
	return nil
}

// BalanceDelta returns the signed effect this transaction had on its account.
// Callers have validated the kind by construction; unknown kinds yield zero.
func (t AccountTransaction) BalanceDelta() decimal.Decimal {
	d, err := SignedDelta(t.Kind, t.Amount)
	if err != nil {
		return decimal.Zero
	}
	return d
}
