package mapping

import (
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/models"
)

// ToModelAuditRecord converts a domain AuditRecord to a model AuditRecord
func ToModelAuditRecord(d domain.AuditRecord) models.AuditRecord {
	return models.AuditRecord{
		AuditID:     d.AuditID,
		EntityType:  d.EntityType,
		EntityID:    d.EntityID,
		Action:      d.Action,
		Before:      d.Before,
		After:       d.After,
		PerformedBy: d.PerformedBy,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainAuditRecord converts a model AuditRecord to a domain AuditRecord
func ToDomainAuditRecord(m models.AuditRecord) domain.AuditRecord {
	return domain.AuditRecord{
		AuditID:     m.AuditID,
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		Action:      m.Action,
		Before:      m.Before,
		After:       m.After,
		PerformedBy: m.PerformedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainAuditRecordSlice converts a slice of model AuditRecords
func ToDomainAuditRecordSlice(ms []models.AuditRecord) []domain.AuditRecord {
	ds := make([]domain.AuditRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAuditRecord(m)
	}
	return ds
}
