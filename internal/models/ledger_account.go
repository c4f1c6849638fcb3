package models

// AccountType defines the fundamental accounting type of a ledger account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// LedgerAccount represents a row of the chart of accounts.
// Ledger accounts carry no balance column; reports aggregate journal lines.
type LedgerAccount struct {
	AccountID       string      `db:"account_id"`
	Code            string      `db:"code"` // Unique business key
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	ParentAccountID string      `db:"parent_account_id"` // Nullable
	Description     string      `db:"description"`
	IsActive        bool        `db:"is_active"`
	AuditFields
}
