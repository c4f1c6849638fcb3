package repositories

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByNumber retrieves a journal entry by its human-readable number.
	FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListEntries retrieves journal entries for a date range, newest first,
	// using token-based pagination. Entries with status REVERSED are included
	// only when includeReversed is set.
	ListEntries(ctx context.Context, from time.Time, to time.Time, includeReversed bool, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// FindLinesByEntryID retrieves the lines of a single journal entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByAccountID retrieves posted lines touching a ledger account
	// within a date range, oldest first.
	FindLinesByAccountID(ctx context.Context, accountID string, from time.Time, to time.Time) ([]domain.JournalLine, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveEntry persists a journal entry together with its lines in one
	// transaction. The entry number is allocated inside the same transaction;
	// the stored entry is returned with the number filled in.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) (*domain.JournalEntry, error)

	// UpdateEntryStatusAndLinks sets the entry status and reversal linkage.
	// reversedBy and reverses are optional; nil leaves the column untouched.
	UpdateEntryStatusAndLinks(ctx context.Context, entryID string, status domain.EntryStatus, reversedBy *string, reverses *string, updatedBy string, updatedAt time.Time) error
}

// JournalRepositoryFacade combines all journal repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
