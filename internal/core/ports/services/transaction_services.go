package services

import (
	"context"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// TransactionProcessorSvc defines the money-movement operations. Each call
// validates the request, applies the balance change atomically and posts the
// matching journal entry.
type TransactionProcessorSvc interface {
	// Deposit credits cash into a user account.
	Deposit(ctx context.Context, req dto.DepositRequest, actingStaffID string) (*domain.AccountTransaction, error)

	// Withdraw debits cash out of a user account. Fails with
	// ErrInsufficientBalance when the account cannot cover the amount.
	Withdraw(ctx context.Context, req dto.WithdrawRequest, actingStaffID string) (*domain.AccountTransaction, error)

	// Transfer moves funds between two user accounts as one atomic pair of
	// legs sharing a generated reference. Returns the outgoing leg first.
	Transfer(ctx context.Context, req dto.TransferRequest, actingStaffID string) ([]domain.AccountTransaction, error)

	// CreditInterest credits accrued interest to a user account. No cash moves.
	CreditInterest(ctx context.Context, req dto.InterestCreditRequest, actingStaffID string) (*domain.AccountTransaction, error)

	// ChargeFee debits a fee from a user account. No cash moves.
	ChargeFee(ctx context.Context, req dto.FeeDebitRequest, actingStaffID string) (*domain.AccountTransaction, error)

	// Adjust applies a signed correction to a user account. Negative amounts
	// post against the mapped accounts with the sides swapped.
	Adjust(ctx context.Context, req dto.AdjustmentRequest, actingStaffID string) (*domain.AccountTransaction, error)
}

// TransactionReaderSvc defines read operations for account transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction by its ID.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.AccountTransaction, error)

	// GetTransactionByNumber retrieves a transaction by its number.
	GetTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.AccountTransaction, error)

	// ListTransactionsByAccount retrieves a user account's transactions,
	// newest first, with token-based pagination.
	ListTransactionsByAccount(ctx context.Context, userAccountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// ListTransactionsByReference retrieves all transactions sharing a
	// reference: both transfer legs plus any compensating reversals.
	ListTransactionsByReference(ctx context.Context, reference string) ([]domain.AccountTransaction, error)

	// ListPendingJournal retrieves transactions whose journal entry has not
	// been posted yet.
	ListPendingJournal(ctx context.Context, limit int) ([]domain.AccountTransaction, error)
}

// TransactionMaintenanceSvc defines recovery operations
type TransactionMaintenanceSvc interface {
	// RepostPendingJournal posts journal entries for transactions left pending
	// by an earlier failure. Returns the number of entries posted.
	RepostPendingJournal(ctx context.Context, limit int, actingStaffID string) (int, error)
}

// TransactionSvcFacade combines all transaction service interfaces
type TransactionSvcFacade interface {
	TransactionProcessorSvc
	TransactionReaderSvc
	TransactionMaintenanceSvc
}
