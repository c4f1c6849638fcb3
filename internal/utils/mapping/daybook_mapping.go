package mapping

import (
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/models"
)

// ToModelDayBook converts a domain DayBook to a model DayBook
func ToModelDayBook(d domain.DayBook) models.DayBook {
	return models.DayBook{
		DayBookID:           d.DayBookID,
		BookNumber:          d.BookNumber,
		TransactionDate:     d.TransactionDate,
		OpeningBalance:      d.OpeningBalance,
		ClosingBalance:      d.ClosingBalance,
		SystemCashBalance:   d.SystemCashBalance,
		PhysicalCashBalance: d.PhysicalCashBalance,
		DiscrepancyAmount:   d.DiscrepancyAmount,
		ReconciliationNotes: d.ReconciliationNotes,
		IsReconciled:        d.IsReconciled,
		IsClosed:            d.IsClosed,
		ClosedBy:            d.ClosedBy,
		ClosedAt:            d.ClosedAt,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDayBook converts a model DayBook to a domain DayBook
func ToDomainDayBook(m models.DayBook) domain.DayBook {
	return domain.DayBook{
		DayBookID:           m.DayBookID,
		BookNumber:          m.BookNumber,
		TransactionDate:     m.TransactionDate,
		OpeningBalance:      m.OpeningBalance,
		ClosingBalance:      m.ClosingBalance,
		SystemCashBalance:   m.SystemCashBalance,
		PhysicalCashBalance: m.PhysicalCashBalance,
		DiscrepancyAmount:   m.DiscrepancyAmount,
		ReconciliationNotes: m.ReconciliationNotes,
		IsReconciled:        m.IsReconciled,
		IsClosed:            m.IsClosed,
		ClosedBy:            m.ClosedBy,
		ClosedAt:            m.ClosedAt,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDayBookSlice converts a slice of model DayBooks
func ToDomainDayBookSlice(ms []models.DayBook) []domain.DayBook {
	ds := make([]domain.DayBook, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDayBook(m)
	}
	return ds
}
