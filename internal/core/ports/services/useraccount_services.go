package services

import (
	"context"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// UserAccountReaderSvc defines read operations for user accounts
type UserAccountReaderSvc interface {
	// GetUserAccountByID retrieves a specific user account by its ID.
	GetUserAccountByID(ctx context.Context, userAccountID string) (*domain.UserAccount, error)

	// GetUserAccountByNumber retrieves a user account by its account number.
	GetUserAccountByNumber(ctx context.Context, accountNumber string) (*domain.UserAccount, error)

	// ListUserAccounts retrieves a paginated list of user accounts.
	ListUserAccounts(ctx context.Context, params dto.ListUserAccountsParams) (*dto.ListUserAccountsResponse, error)
}

// UserAccountWriterSvc defines write operations for user accounts
type UserAccountWriterSvc interface {
	// CreateUserAccount opens a new user account with a zero balance.
	CreateUserAccount(ctx context.Context, req dto.CreateUserAccountRequest, creatorStaffID string) (*domain.UserAccount, error)

	// UpdateUserAccount updates holder details and interest rate.
	UpdateUserAccount(ctx context.Context, userAccountID string, req dto.UpdateUserAccountRequest, actingStaffID string) (*domain.UserAccount, error)

	// SetUserAccountStatus transitions an account between ACTIVE, FROZEN and
	// CLOSED. Closing requires a zero balance.
	SetUserAccountStatus(ctx context.Context, userAccountID string, req dto.UserAccountStatusRequest, actingStaffID string) (*domain.UserAccount, error)
}

// UserAccountSvcFacade combines all user account service interfaces
type UserAccountSvcFacade interface {
	UserAccountReaderSvc
	UserAccountWriterSvc
}
