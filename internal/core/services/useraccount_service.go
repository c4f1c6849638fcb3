package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// userAccountService manages customer deposit accounts. Balances are never
// written here; they change only through the transaction processor.
type userAccountService struct {
	BaseService
	userAccountRepo portsrepo.UserAccountRepositoryFacade
	auditSvc        portssvc.AuditSvcFacade
}

// NewUserAccountService creates a new UserAccountService.
func NewUserAccountService(userAccountRepo portsrepo.UserAccountRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.UserAccountSvcFacade {
	return &userAccountService{
		userAccountRepo: userAccountRepo,
		auditSvc:        auditSvc,
	}
}

// Ensure userAccountService implements the portssvc.UserAccountSvcFacade interface
var _ portssvc.UserAccountSvcFacade = (*userAccountService)(nil)

// CreateUserAccount opens a new user account with a zero balance. Funds
// arrive through a subsequent deposit so every balance change has a
// transaction behind it.
func (s *userAccountService) CreateUserAccount(ctx context.Context, req dto.CreateUserAccountRequest, creatorStaffID string) (*domain.UserAccount, error) {
	if req.InterestRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	openingDate := req.OpeningDate
	if openingDate.IsZero() {
		openingDate = now
	}

	account := domain.UserAccount{
		UserAccountID: uuid.NewString(),
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
		AccountType:   req.AccountType,
		Balance:       decimal.Zero,
		InterestRate:  req.InterestRate,
		Status:        domain.AccountActive,
		OpeningDate:   openingDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorStaffID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorStaffID,
		},
	}

	if err := s.userAccountRepo.SaveUserAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save user account",
			slog.String("account_number", account.AccountNumber))
		return nil, err
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "user_account",
			EntityID:    account.UserAccountID,
			Action:      domain.AuditActionCreate,
			PerformedBy: creatorStaffID,
		})
	}

	s.LogInfo(ctx, "User account created successfully",
		slog.String("user_account_id", account.UserAccountID),
		slog.String("account_number", account.AccountNumber))
	return &account, nil
}

// GetUserAccountByID retrieves a specific user account.
func (s *userAccountService) GetUserAccountByID(ctx context.Context, userAccountID string) (*domain.UserAccount, error) {
	return s.userAccountRepo.FindUserAccountByID(ctx, userAccountID)
}

// GetUserAccountByNumber retrieves a user account by its account number.
func (s *userAccountService) GetUserAccountByNumber(ctx context.Context, accountNumber string) (*domain.UserAccount, error) {
	return s.userAccountRepo.FindUserAccountByNumber(ctx, accountNumber)
}

// ListUserAccounts retrieves a paginated list of user accounts.
func (s *userAccountService) ListUserAccounts(ctx context.Context, params dto.ListUserAccountsParams) (*dto.ListUserAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var status *domain.UserAccountStatus
	if params.Status != nil {
		st := domain.UserAccountStatus(*params.Status)
		status = &st
	}

	accounts, err := s.userAccountRepo.ListUserAccounts(ctx, status, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list user accounts")
		return nil, fmt.Errorf("failed to list user accounts: %w", err)
	}

	resp := dto.ToListUserAccountsResponse(accounts)
	return &resp, nil
}

// UpdateUserAccount updates holder name and interest rate. The balance is
// deliberately untouchable through this path.
func (s *userAccountService) UpdateUserAccount(ctx context.Context, userAccountID string, req dto.UpdateUserAccountRequest, actingStaffID string) (*domain.UserAccount, error) {
	account, err := s.userAccountRepo.FindUserAccountByID(ctx, userAccountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.HolderName != nil {
		account.HolderName = *req.HolderName
		updated = true
	}
	if req.InterestRate != nil {
		if req.InterestRate.IsNegative() {
			return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrValidation)
		}
		account.InterestRate = *req.InterestRate
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for user account update",
			slog.String("user_account_id", userAccountID))
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actingStaffID

	if err := s.userAccountRepo.UpdateUserAccountDetails(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update user account",
			slog.String("user_account_id", userAccountID))
		return nil, err
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "user_account",
			EntityID:    userAccountID,
			Action:      domain.AuditActionUpdate,
			PerformedBy: actingStaffID,
		})
	}

	s.LogInfo(ctx, "User account updated successfully",
		slog.String("user_account_id", userAccountID))
	return account, nil
}

// SetUserAccountStatus transitions an account between ACTIVE, FROZEN and
// CLOSED. Closing requires a zero balance; reopening a closed account is not
// supported.
func (s *userAccountService) SetUserAccountStatus(ctx context.Context, userAccountID string, req dto.UserAccountStatusRequest, actingStaffID string) (*domain.UserAccount, error) {
	account, err := s.userAccountRepo.FindUserAccountByID(ctx, userAccountID)
	if err != nil {
		return nil, err
	}

	if account.Status == req.Status {
		return account, nil
	}
	if account.Status == domain.AccountClosed {
		return nil, fmt.Errorf("%w: account %s is closed and cannot change status", apperrors.ErrConflict, account.AccountNumber)
	}
	if req.Status == domain.AccountClosed && !account.Balance.IsZero() {
		return nil, fmt.Errorf("%w: account %s has balance %s, only zero-balance accounts can be closed",
			apperrors.ErrConflict, account.AccountNumber, account.Balance.String())
	}

	now := time.Now().UTC()
	if err := s.userAccountRepo.UpdateUserAccountStatus(ctx, userAccountID, req.Status, actingStaffID, now); err != nil {
		s.LogError(ctx, err, "Failed to update user account status",
			slog.String("user_account_id", userAccountID),
			slog.String("status", string(req.Status)))
		return nil, err
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "user_account",
			EntityID:    userAccountID,
			Action:      domain.AuditActionUpdate,
			PerformedBy: actingStaffID,
		})
	}

	account.Status = req.Status
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actingStaffID

	s.LogInfo(ctx, "User account status updated successfully",
		slog.String("user_account_id", userAccountID),
		slog.String("status", string(req.Status)))
	return account, nil
}
