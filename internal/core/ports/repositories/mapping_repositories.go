package repositories

import (
	"context"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// KindMappingReader defines read operations for transaction kind mappings
type KindMappingReader interface {
	// FindMappingByKind retrieves the posting mapping for a transaction kind.
	FindMappingByKind(ctx context.Context, kind domain.TransactionKind) (*domain.KindMapping, error)

	// ListMappings retrieves all configured kind mappings.
	ListMappings(ctx context.Context) ([]domain.KindMapping, error)
}

// KindMappingWriter defines write operations for transaction kind mappings
type KindMappingWriter interface {
	// SaveMapping inserts or replaces the mapping for a transaction kind.
	SaveMapping(ctx context.Context, mapping domain.KindMapping) error
}

// KindMappingRepositoryFacade combines all kind mapping repository interfaces
type KindMappingRepositoryFacade interface {
	KindMappingReader
	KindMappingWriter
}
