package dto

import (
	"encoding/json"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// AuditRecordResponse defines the data returned for an audit record.
type AuditRecordResponse struct {
	AuditID     string          `json:"auditID"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityID"`
	Action      string          `json:"action"`
	Before      json.RawMessage `json:"before,omitempty"`
	After       json.RawMessage `json:"after,omitempty"`
	PerformedBy string          `json:"performedBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToAuditRecordResponse converts a domain.AuditRecord to its response DTO.
func ToAuditRecordResponse(r *domain.AuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		AuditID:     r.AuditID,
		EntityType:  r.EntityType,
		EntityID:    r.EntityID,
		Action:      r.Action,
		Before:      r.Before,
		After:       r.After,
		PerformedBy: r.PerformedBy,
		CreatedAt:   r.CreatedAt,
	}
}

// ToAuditRecordResponses converts a slice of domain.AuditRecord.
func ToAuditRecordResponses(records []domain.AuditRecord) []AuditRecordResponse {
	responses := make([]AuditRecordResponse, len(records))
	for i, r := range records {
		responses[i] = ToAuditRecordResponse(&r)
	}
	return responses
}

// ListAuditParams defines query parameters for listing audit records.
type ListAuditParams struct {
	Limit int `form:"limit,default=50"`
}
