package repositories

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// UserAccountReader defines read operations for user accounts
type UserAccountReader interface {
	// FindUserAccountByID retrieves a specific user account by its identifier.
	FindUserAccountByID(ctx context.Context, userAccountID string) (*domain.UserAccount, error)

	// FindUserAccountByNumber retrieves a user account by its account number.
	FindUserAccountByNumber(ctx context.Context, accountNumber string) (*domain.UserAccount, error)

	// ListUserAccounts retrieves a paginated list of user accounts, optionally
	// filtered by status.
	ListUserAccounts(ctx context.Context, status *domain.UserAccountStatus, limit int, offset int) ([]domain.UserAccount, error)
}

// UserAccountWriter defines write operations for user accounts
type UserAccountWriter interface {
	// SaveUserAccount persists a new user account.
	SaveUserAccount(ctx context.Context, account domain.UserAccount) error

	// UpdateUserAccountDetails updates holder name and interest rate.
	UpdateUserAccountDetails(ctx context.Context, account domain.UserAccount) error

	// UpdateUserAccountStatus transitions a user account between statuses.
	UpdateUserAccountStatus(ctx context.Context, userAccountID string, status domain.UserAccountStatus, staffID string, now time.Time) error
}

// UserAccountRepositoryFacade combines all user account repository interfaces
type UserAccountRepositoryFacade interface {
	UserAccountReader
	UserAccountWriter
}
