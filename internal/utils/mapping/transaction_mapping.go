package mapping

import (
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/models"
)

// ToModelAccountTransaction converts a domain AccountTransaction to its model
func ToModelAccountTransaction(d domain.AccountTransaction) models.AccountTransaction {
	return models.AccountTransaction{
		TransactionID:           d.TransactionID,
		TransactionNumber:       d.TransactionNumber,
		UserAccountID:           d.UserAccountID,
		Kind:                    string(d.Kind),
		Amount:                  d.Amount,
		RunningBalance:          d.RunningBalance,
		Description:             d.Description,
		Reference:               d.Reference,
		JournalEntryID:          d.JournalEntryID,
		JournalPending:          d.JournalPending,
		DayBookID:               d.DayBookID,
		IsReversal:              d.IsReversal,
		ReversesTransactionID:   d.ReversesTransactionID,
		ReversedByTransactionID: d.ReversedByTransactionID,
		ReversedAt:              d.ReversedAt,
		ReversalReason:          d.ReversalReason,
		AuditFields:             ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountTransaction converts a model AccountTransaction to its domain form
func ToDomainAccountTransaction(m models.AccountTransaction) domain.AccountTransaction {
	return domain.AccountTransaction{
		TransactionID:           m.TransactionID,
		TransactionNumber:       m.TransactionNumber,
		UserAccountID:           m.UserAccountID,
		Kind:                    domain.TransactionKind(m.Kind),
		Amount:                  m.Amount,
		RunningBalance:          m.RunningBalance,
		Description:             m.Description,
		Reference:               m.Reference,
		JournalEntryID:          m.JournalEntryID,
		JournalPending:          m.JournalPending,
		DayBookID:               m.DayBookID,
		IsReversal:              m.IsReversal,
		ReversesTransactionID:   m.ReversesTransactionID,
		ReversedByTransactionID: m.ReversedByTransactionID,
		ReversedAt:              m.ReversedAt,
		ReversalReason:          m.ReversalReason,
		AuditFields:             ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountTransactionSlice converts a slice of model AccountTransactions
func ToDomainAccountTransactionSlice(ms []models.AccountTransaction) []domain.AccountTransaction {
	ds := make([]domain.AccountTransaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccountTransaction(m)
	}
	return ds
}
