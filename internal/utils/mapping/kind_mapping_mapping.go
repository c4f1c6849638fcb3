package mapping

import (
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/models"
)

// ToModelKindMapping converts a domain KindMapping to a model KindMapping
func ToModelKindMapping(d domain.KindMapping) models.KindMapping {
	return models.KindMapping{
		MappingID:         d.MappingID,
		Kind:              string(d.Kind),
		DebitAccountCode:  d.DebitAccountCode,
		CreditAccountCode: d.CreditAccountCode,
		Description:       d.Description,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainKindMapping converts a model KindMapping to a domain KindMapping
func ToDomainKindMapping(m models.KindMapping) domain.KindMapping {
	return domain.KindMapping{
		MappingID:         m.MappingID,
		Kind:              domain.TransactionKind(m.Kind),
		DebitAccountCode:  m.DebitAccountCode,
		CreditAccountCode: m.CreditAccountCode,
		Description:       m.Description,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainKindMappingSlice converts a slice of model KindMappings
func ToDomainKindMappingSlice(ms []models.KindMapping) []domain.KindMapping {
	ds := make([]domain.KindMapping, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainKindMapping(m)
	}
	return ds
}
