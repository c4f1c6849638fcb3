package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserAccount represents a customer deposit account row. Balance is the
// materialized running balance, updated only inside the transaction
// processor's locked region.
type UserAccount struct {
	UserAccountID       string          `db:"user_account_id"`
	AccountNumber       string          `db:"account_number"` // Unique business key
	HolderName          string          `db:"holder_name"`
	AccountType         string          `db:"account_type"` // SB / FD
	Balance             decimal.Decimal `db:"balance"`
	InterestRate        decimal.Decimal `db:"interest_rate"`
	Status              string          `db:"status"` // ACTIVE / FROZEN / CLOSED
	OpeningDate         time.Time       `db:"opening_date"`
	LastTransactionDate *time.Time      `db:"last_transaction_date"`
	AuditFields
}
