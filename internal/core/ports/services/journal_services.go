package services

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntryByID retrieves a journal entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// GetEntryByNumber retrieves a journal entry by its human-readable number.
	GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries for a date range.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)

	// ListAccountLines retrieves posted lines touching a ledger account within
	// a date range, oldest first.
	ListAccountLines(ctx context.Context, accountID string, from time.Time, to time.Time) ([]domain.JournalLine, error)
}

// JournalWriterSvc defines write operations for journal entries
type JournalWriterSvc interface {
	// PostEntry validates, numbers and persists a balanced journal entry.
	// Every referenced ledger account must exist and be active, each line must
	// carry exactly one positive side, and total debits must equal total
	// credits; otherwise nothing is written.
	PostEntry(ctx context.Context, req dto.PostJournalEntryRequest, creatorStaffID string) (*domain.JournalEntry, error)

	// ReverseEntry books a compensating entry mirroring a posted entry with
	// the debit and credit sides swapped, then marks the original REVERSED
	// with links both ways. Returns the compensating entry.
	ReverseEntry(ctx context.Context, entryID string, req dto.ReverseJournalEntryRequest, actingStaffID string) (*domain.JournalEntry, error)

	// MarkEntryReversed stamps an entry REVERSED and links it to the entry
	// that reverses it. Line amounts are never touched.
	MarkEntryReversed(ctx context.Context, entryID string, reversedByEntryID string, actingStaffID string) error
}

// JournalSvcFacade combines all journal service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
