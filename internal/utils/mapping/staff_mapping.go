package mapping

import (
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/models"
)

// ToModelStaff converts a domain Staff to a model Staff
func ToModelStaff(d domain.Staff) models.Staff {
	return models.Staff{
		StaffID:      d.StaffID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStaff converts a model Staff to a domain Staff
func ToDomainStaff(m models.Staff) domain.Staff {
	return domain.Staff{
		StaffID:      m.StaffID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStaffSlice converts a slice of model Staff
func ToDomainStaffSlice(ms []models.Staff) []domain.Staff {
	ds := make([]domain.Staff, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStaff(m)
	}
	return ds
}
