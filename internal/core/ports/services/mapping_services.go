package services

import (
	"context"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/dto"
)

// KindMappingReaderSvc defines read operations for kind mappings
type KindMappingReaderSvc interface {
	// GetMappingByKind retrieves the posting mapping for a transaction kind.
	GetMappingByKind(ctx context.Context, kind domain.TransactionKind) (*domain.KindMapping, error)

	// ListMappings retrieves all configured kind mappings.
	ListMappings(ctx context.Context) ([]domain.KindMapping, error)
}

// KindMappingWriterSvc defines write operations for kind mappings
type KindMappingWriterSvc interface {
	// SaveMapping creates or replaces the mapping for a transaction kind.
	// Both mapped accounts must exist and be active.
	SaveMapping(ctx context.Context, req dto.SaveKindMappingRequest, actingStaffID string) (*domain.KindMapping, error)
}

// KindMappingSvcFacade combines all kind mapping service interfaces
type KindMappingSvcFacade interface {
	KindMappingReaderSvc
	KindMappingWriterSvc
}
