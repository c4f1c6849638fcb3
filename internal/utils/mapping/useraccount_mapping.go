package mapping

import (
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	"github.com/notcool100/astrofinance-ledger/internal/models"
)

// ToModelUserAccount converts a domain UserAccount to a model UserAccount
func ToModelUserAccount(d domain.UserAccount) models.UserAccount {
	return models.UserAccount{
		UserAccountID:       d.UserAccountID,
		AccountNumber:       d.AccountNumber,
		HolderName:          d.HolderName,
		AccountType:         string(d.AccountType),
		Balance:             d.Balance,
		InterestRate:        d.InterestRate,
		Status:              string(d.Status),
		OpeningDate:         d.OpeningDate,
		LastTransactionDate: d.LastTransactionDate,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUserAccount converts a model UserAccount to a domain UserAccount
func ToDomainUserAccount(m models.UserAccount) domain.UserAccount {
	return domain.UserAccount{
		UserAccountID:       m.UserAccountID,
		AccountNumber:       m.AccountNumber,
		HolderName:          m.HolderName,
		AccountType:         domain.UserAccountType(m.AccountType),
		Balance:             m.Balance,
		InterestRate:        m.InterestRate,
		Status:              domain.UserAccountStatus(m.Status),
		OpeningDate:         m.OpeningDate,
		LastTransactionDate: m.LastTransactionDate,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserAccountSlice converts a slice of model UserAccounts
func ToDomainUserAccountSlice(ms []models.UserAccount) []domain.UserAccount {
	ds := make([]domain.UserAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUserAccount(m)
	}
	return ds
}
