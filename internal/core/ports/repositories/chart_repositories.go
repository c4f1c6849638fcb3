package repositories

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// LedgerAccountReader defines read operations for the chart of accounts
type LedgerAccountReader interface {
	// FindAccountByID retrieves a specific ledger account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error)

	// FindAccountByCode retrieves a ledger account by its stable business code.
	FindAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error)

	// FindAccountByNameFuzzy retrieves the best case-insensitive substring match
	// for a name (legacy compatibility lookups); exact name matches win.
	FindAccountByNameFuzzy(ctx context.Context, text string) (*domain.LedgerAccount, error)

	// FindAccountsByCodes retrieves multiple ledger accounts keyed by code.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.LedgerAccount, error)

	// ListAccounts retrieves a paginated list of ledger accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.LedgerAccount, error)
}

// LedgerAccountWriter defines write operations for the chart of accounts
type LedgerAccountWriter interface {
	// SaveAccount persists a new ledger account.
	SaveAccount(ctx context.Context, account domain.LedgerAccount) error

	// UpdateAccount updates mutable details (name, description) of an account.
	UpdateAccount(ctx context.Context, account domain.LedgerAccount) error

	// DeactivateAccount marks a ledger account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, staffID string, now time.Time) error
}

// LedgerAccountRepositoryFacade combines all chart-of-accounts repository interfaces
type LedgerAccountRepositoryFacade interface {
	LedgerAccountReader
	LedgerAccountWriter
}
