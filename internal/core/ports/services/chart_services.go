package services

import (
	"context"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// LedgerAccountReaderSvc defines read operations for the chart of accounts
type LedgerAccountReaderSvc interface {
	// GetAccountByID retrieves a specific ledger account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error)

	// GetAccountByCode retrieves a ledger account by its business code.
	GetAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error)

	// GetAccountByName retrieves the best case-insensitive substring match for
	// an account name. Kept for legacy callers that only know display names.
	GetAccountByName(ctx context.Context, text string) (*domain.LedgerAccount, error)

	// ListAccounts retrieves a paginated list of ledger accounts.
	ListAccounts(ctx context.Context, params dto.ListLedgerAccountsParams) (*dto.ListLedgerAccountsResponse, error)
}

// LedgerAccountWriterSvc defines write operations for the chart of accounts
type LedgerAccountWriterSvc interface {
	// CreateAccount persists a new ledger account.
	CreateAccount(ctx context.Context, req dto.CreateLedgerAccountRequest, creatorStaffID string) (*domain.LedgerAccount, error)

	// UpdateAccount updates ledger account details (name, description).
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateLedgerAccountRequest, actingStaffID string) (*domain.LedgerAccount, error)

	// DeactivateAccount marks a ledger account as inactive. Accounts still
	// referenced by an enabled kind mapping cannot be deactivated.
	DeactivateAccount(ctx context.Context, accountID string, actingStaffID string) error
}

// LedgerAccountSvcFacade combines all chart-of-accounts service interfaces
type LedgerAccountSvcFacade interface {
	LedgerAccountReaderSvc
	LedgerAccountWriterSvc
}
