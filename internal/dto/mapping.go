package dto

import (
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// SaveKindMappingRequest defines the data to create or replace a kind mapping.
type SaveKindMappingRequest struct {
	Kind              domain.TransactionKind `json:"kind" binding:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER_IN TRANSFER_OUT INTEREST_CREDIT FEE_DEBIT ADJUSTMENT"`
	DebitAccountCode  string                 `json:"debitAccountCode" binding:"required"`
	CreditAccountCode string                 `json:"creditAccountCode" binding:"required"`
	Description       string                 `json:"description"`
}

// KindMappingResponse defines the data returned for a kind mapping.
type KindMappingResponse struct {
	MappingID         string                 `json:"mappingID"`
	Kind              domain.TransactionKind `json:"kind"`
	DebitAccountCode  string                 `json:"debitAccountCode"`
	CreditAccountCode string                 `json:"creditAccountCode"`
	Description       string                 `json:"description"`
	CreatedAt         time.Time              `json:"createdAt"`
	CreatedBy         string                 `json:"createdBy"`
	LastUpdatedAt     time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy     string                 `json:"lastUpdatedBy"`
}

// ToKindMappingResponse converts a domain.KindMapping to its response DTO.
func ToKindMappingResponse(m *domain.KindMapping) KindMappingResponse {
	return KindMappingResponse{
		MappingID:         m.MappingID,
		Kind:              m.Kind,
		DebitAccountCode:  m.DebitAccountCode,
		CreditAccountCode: m.CreditAccountCode,
		Description:       m.Description,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
		LastUpdatedAt:     m.LastUpdatedAt,
		LastUpdatedBy:     m.LastUpdatedBy,
	}
}

// ListKindMappingsResponse wraps the list of kind mappings.
type ListKindMappingsResponse struct {
	Mappings []KindMappingResponse `json:"mappings"`
}

// ToListKindMappingsResponse converts a slice of domain.KindMapping to the list DTO.
func ToListKindMappingsResponse(mappings []domain.KindMapping) ListKindMappingsResponse {
	res := make([]KindMappingResponse, len(mappings))
	for i, m := range mappings {
		res[i] = ToKindMappingResponse(&m)
	}
	return ListKindMappingsResponse{Mappings: res}
}
