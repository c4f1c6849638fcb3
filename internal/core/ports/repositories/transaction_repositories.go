package repositories

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// TransactionReader defines read operations for account transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.AccountTransaction, error)

	// FindTransactionByNumber retrieves a transaction by its human-readable number.
	FindTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.AccountTransaction, error)

	// FindTransactionsByReference retrieves all transactions that share a
	// reference (e.g. both legs of a transfer), oldest first.
	FindTransactionsByReference(ctx context.Context, reference string) ([]domain.AccountTransaction, error)

	// ListTransactionsByAccount retrieves transactions for a user account,
	// newest first, using token-based pagination.
	ListTransactionsByAccount(ctx context.Context, userAccountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error)

	// ListTransactionsByDayBook retrieves all transactions recorded against a
	// day book, oldest first.
	ListTransactionsByDayBook(ctx context.Context, dayBookID string) ([]domain.AccountTransaction, error)

	// ListPendingJournal retrieves transactions whose journal entry has not
	// been posted yet, oldest first.
	ListPendingJournal(ctx context.Context, limit int) ([]domain.AccountTransaction, error)
}

// TransactionWriter defines write operations for account transactions
type TransactionWriter interface {
	// ApplyTransactions atomically applies a batch of transactions: it locks
	// the affected user accounts in a stable order, validates status and
	// balance sufficiency, allocates transaction numbers, computes running
	// balances, updates account balances and the day book totals, and records
	// reversal linkage on originals when a transaction reverses another.
	// Either every transaction in the batch is applied or none is.
	// The stored transactions are returned with numbers and running balances.
	ApplyTransactions(ctx context.Context, txns []domain.AccountTransaction, dayBookID string) ([]domain.AccountTransaction, error)

	// SetJournalPosted records the journal entry created for a transaction and
	// clears its pending flag.
	SetJournalPosted(ctx context.Context, transactionID string, entryID string, updatedBy string, updatedAt time.Time) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
