package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserAccountStatus is the lifecycle state of a customer account.
type UserAccountStatus string

const (
	AccountActive UserAccountStatus = "ACTIVE"
	AccountFrozen UserAccountStatus = "FROZEN"
	AccountClosed UserAccountStatus = "CLOSED"
)

// UserAccountType is the product type of a customer account.
type UserAccountType string

const (
	// AccountTypeSB is a savings-bank account, the default product.
	AccountTypeSB UserAccountType = "SB"
	// AccountTypeFD is a fixed-deposit account.
	AccountTypeFD UserAccountType = "FD"
)

// UserAccount is a customer deposit account. Its Balance is the materialized
// running balance, mutated only inside the transaction processor's locked
// region; every mutation leaves an AccountTransaction with the snapshot.
type UserAccount struct {
	UserAccountID       string            `json:"userAccountID"` // Primary Key (UUID)
	AccountNumber       string            `json:"accountNumber"` // Unique business key
	HolderName          string            `json:"holderName"`
	AccountType         UserAccountType   `json:"accountType"`
	Balance             decimal.Decimal   `json:"balance"`
	InterestRate        decimal.Decimal   `json:"interestRate"` // Annual %, informational (no accrual engine here)
	Status              UserAccountStatus `json:"status"`
	OpeningDate         time.Time         `json:"openingDate"`
	LastTransactionDate *time.Time        `json:"lastTransactionDate,omitempty"`
	AuditFields
}

// CanTransact reports whether the account accepts new transactions.
func (a UserAccount) CanTransact() bool {
	return a.Status == AccountActive
}
