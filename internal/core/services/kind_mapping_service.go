package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// kindMappingService manages the posting routes from transaction kinds to
// ledger account pairs.
type kindMappingService struct {
	BaseService
	mappingRepo portsrepo.KindMappingRepositoryFacade
	accountRepo portsrepo.LedgerAccountReader
	auditSvc    portssvc.AuditSvcFacade
}

// NewKindMappingService creates a new KindMappingService.
func NewKindMappingService(mappingRepo portsrepo.KindMappingRepositoryFacade, accountRepo portsrepo.LedgerAccountReader, auditSvc portssvc.AuditSvcFacade) portssvc.KindMappingSvcFacade {
	return &kindMappingService{
		mappingRepo: mappingRepo,
		accountRepo: accountRepo,
		auditSvc:    auditSvc,
	}
}

// Ensure kindMappingService implements the portssvc.KindMappingSvcFacade interface
var _ portssvc.KindMappingSvcFacade = (*kindMappingService)(nil)

// GetMappingByKind retrieves the posting mapping for a transaction kind.
func (s *kindMappingService) GetMappingByKind(ctx context.Context, kind domain.TransactionKind) (*domain.KindMapping, error) {
	if !domain.IsValidTransactionKind(kind) {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, kind)
	}

	mapping, err := s.mappingRepo.FindMappingByKind(ctx, kind)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find kind mapping",
				slog.String("kind", string(kind)))
		}
		return nil, err
	}
	return mapping, nil
}

// ListMappings retrieves all configured kind mappings.
func (s *kindMappingService) ListMappings(ctx context.Context) ([]domain.KindMapping, error) {
	mappings, err := s.mappingRepo.ListMappings(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list kind mappings")
		return nil, fmt.Errorf("failed to list kind mappings: %w", err)
	}

	if mappings == nil {
		return []domain.KindMapping{}, nil
	}
	return mappings, nil
}

// SaveMapping creates or replaces the mapping for a transaction kind. Both
// mapped accounts must exist and be active, so every posting the mapping
// routes will land on live chart accounts.
func (s *kindMappingService) SaveMapping(ctx context.Context, req dto.SaveKindMappingRequest, actingStaffID string) (*domain.KindMapping, error) {
	if !domain.IsValidTransactionKind(req.Kind) {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, req.Kind)
	}
	if req.DebitAccountCode == req.CreditAccountCode {
		return nil, fmt.Errorf("%w: debit and credit accounts must differ", apperrors.ErrValidation)
	}

	codes := []string{req.DebitAccountCode, req.CreditAccountCode}
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for kind mapping",
			slog.String("kind", string(req.Kind)))
		return nil, fmt.Errorf("failed to fetch mapped accounts: %w", err)
	}
	for _, code := range codes {
		account, found := accounts[code]
		if !found {
			return nil, fmt.Errorf("%w: ledger account %s does not exist", apperrors.ErrValidation, code)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: ledger account %s is inactive", apperrors.ErrValidation, code)
		}
	}

	now := time.Now().UTC()
	mapping := domain.KindMapping{
		MappingID:         uuid.NewString(),
		Kind:              req.Kind,
		DebitAccountCode:  req.DebitAccountCode,
		CreditAccountCode: req.CreditAccountCode,
		Description:       req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actingStaffID,
			LastUpdatedAt: now,
			LastUpdatedBy: actingStaffID,
		},
	}

	if err := s.mappingRepo.SaveMapping(ctx, mapping); err != nil {
		s.LogError(ctx, err, "Failed to save kind mapping",
			slog.String("kind", string(req.Kind)))
		return nil, fmt.Errorf("failed to save kind mapping: %w", err)
	}

	if s.auditSvc != nil {
		s.auditSvc.RecordAction(ctx, domain.AuditRecord{
			EntityType:  "kind_mapping",
			EntityID:    string(req.Kind),
			Action:      domain.AuditActionUpdate,
			PerformedBy: actingStaffID,
		})
	}

	s.LogInfo(ctx, "Kind mapping saved successfully",
		slog.String("kind", string(req.Kind)),
		slog.String("debit_account", req.DebitAccountCode),
		slog.String("credit_account", req.CreditAccountCode))

	// Re-read: replacing an existing mapping keeps that row's identity and
	// creation stamp, which the freshly built struct does not carry.
	return s.mappingRepo.FindMappingByKind(ctx, req.Kind)
}
