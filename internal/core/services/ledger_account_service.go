package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// ledgerAccountService implements the LedgerAccountSvcFacade interface
type ledgerAccountService struct {
	BaseService
	accountRepo portsrepo.LedgerAccountRepositoryFacade
	mappingRepo portsrepo.KindMappingReader
	auditSvc    portssvc.AuditSvcFacade
}

// ServiceOption is a functional option for configuring the ledger account service
type ServiceOption func(*ledgerAccountService)

// WithKindMappingRepository adds the kind mapping reader used to refuse
// deactivating an account a mapping still routes to.
func WithKindMappingRepository(repo portsrepo.KindMappingReader) ServiceOption {
	return func(s *ledgerAccountService) {
		s.mappingRepo = repo
	}
}

// WithAuditService adds the audit trail dependency
func WithAuditService(svc portssvc.AuditSvcFacade) ServiceOption {
	return func(s *ledgerAccountService) {
		s.auditSvc = svc
	}
}

// NewLedgerAccountService creates a new ledger account service with the provided options
func NewLedgerAccountService(repo portsrepo.LedgerAccountRepositoryFacade, options ...ServiceOption) portssvc.LedgerAccountSvcFacade {
	svc := &ledgerAccountService{
		accountRepo: repo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure ledgerAccountService implements the LedgerAccountSvcFacade interface
var _ portssvc.LedgerAccountSvcFacade = (*ledgerAccountService)(nil)

func (s *ledgerAccountService) CreateAccount(ctx context.Context, req dto.CreateLedgerAccountRequest, creatorStaffID string) (*domain.LedgerAccount, error) {
	now := time.Now().UTC()
	newAccountID := uuid.NewString()

	parentID := ""
	if req.ParentAccountID != nil {
		parentID = *req.ParentAccountID
		// Validate parent account exists
		if _, err := s.accountRepo.FindAccountByID(ctx, parentID); err != nil {
			s.LogError(ctx, err, "Failed to find parent account",
				slog.String("parent_id", parentID))
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
	}

	account := domain.LedgerAccount{
		AccountID:       newAccountID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorStaffID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorStaffID,
		},
	}

	err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		s.LogError(ctx, err, "Failed to save ledger account",
			slog.String("account_id", account.AccountID),
			slog.String("code", account.Code))
		return nil, err
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "ledger_account",
			EntityID:    account.AccountID,
			Action:      domain.AuditActionCreate,
			PerformedBy: creatorStaffID,
		})
	}

	s.LogInfo(ctx, "Ledger account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *ledgerAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find ledger account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err // Propagate error (including NotFound)
	}

	s.LogDebug(ctx, "Ledger account retrieved successfully",
		slog.String("account_id", account.AccountID))
	return account, nil
}

func (s *ledgerAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find ledger account by code",
				slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountByName resolves an account from a name fragment. Exact
// (case-folded) matches win over partial ones.
func (s *ledgerAccountService) GetAccountByName(ctx context.Context, text string) (*domain.LedgerAccount, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: name text is required", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByNameFuzzy(ctx, text)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find ledger account by name",
				slog.String("text", text))
		}
		return nil, err
	}
	return account, nil
}

func (s *ledgerAccountService) ListAccounts(ctx context.Context, params dto.ListLedgerAccountsParams) (*dto.ListLedgerAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger accounts",
			slog.Int("limit", limit),
			slog.Int("offset", params.Offset))
		return nil, fmt.Errorf("failed to list ledger accounts: %w", err)
	}

	resp := dto.ToListLedgerAccountsResponse(accounts)

	s.LogDebug(ctx, "Ledger accounts listed successfully",
		slog.Int("count", len(accounts)))
	return &resp, nil
}

func (s *ledgerAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateLedgerAccountRequest, actingStaffID string) (*domain.LedgerAccount, error) {
	// Fetch the existing account
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err // GetAccountByID already logs errors
	}

	// Apply updates; code and account type are immutable once created
	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for ledger account update",
			slog.String("account_id", accountID))
		return account, nil
	}

	// Update audit fields
	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actingStaffID

	err = s.accountRepo.UpdateAccount(ctx, *account)
	if err != nil {
		s.LogError(ctx, err, "Failed to update ledger account",
			slog.String("account_id", accountID))
		return nil, err
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "ledger_account",
			EntityID:    accountID,
			Action:      domain.AuditActionUpdate,
			PerformedBy: actingStaffID,
		})
	}

	s.LogInfo(ctx, "Ledger account updated successfully",
		slog.String("account_id", account.AccountID))
	return account, nil
}

func (s *ledgerAccountService) DeactivateAccount(ctx context.Context, accountID string, actingStaffID string) error {
	// First verify that the account exists
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err // GetAccountByID already logs errors
	}

	// Refuse to deactivate an account a kind mapping still routes postings to;
	// the mapping must be repointed first.
	if s.mappingRepo != nil {
		mappings, err := s.mappingRepo.ListMappings(ctx)
		if err != nil {
			s.LogError(ctx, err, "Failed to list kind mappings for deactivation check",
				slog.String("account_id", accountID))
			return fmt.Errorf("failed to check kind mappings: %w", err)
		}
		for _, m := range mappings {
			if m.DebitAccountCode == account.Code || m.CreditAccountCode == account.Code {
				return fmt.Errorf("%w: account %s is referenced by the %s kind mapping",
					apperrors.ErrConflict, account.Code, m.Kind)
			}
		}
	}

	now := time.Now().UTC()
	err = s.accountRepo.DeactivateAccount(ctx, accountID, actingStaffID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate ledger account",
			slog.String("account_id", accountID))
		return err
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "ledger_account",
			EntityID:    accountID,
			Action:      domain.AuditActionUpdate,
			PerformedBy: actingStaffID,
		})
	}

	s.LogInfo(ctx, "Ledger account deactivated successfully",
		slog.String("account_id", accountID))
	return nil
}
