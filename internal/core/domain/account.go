package domain

// AccountType defines the fundamental accounting type of a ledger account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// AllAccountTypes lists every AccountType, for validation and table tests.
var AllAccountTypes = []AccountType{Asset, Liability, Equity, Income, Expense}

// LedgerAccount is a node in the chart of accounts.
// Code is the stable business key surfaced in mappings and reports; it is
// immutable once a posted entry references it. Ledger accounts do not carry a
// materialized balance — reporting aggregates journal lines.
type LedgerAccount struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	Code            string      `json:"code"`            // Unique, immutable business key (e.g. CASH)
	Name            string      `json:"name"`            // Display name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	ParentAccountID string      `json:"parentAccountID"` // Nullable FK -> ledger_accounts.account_id (tree for roll-ups)
	Description     string      `json:"description"`     // Nullable
	IsActive        bool        `json:"isActive"`        // Inactive accounts reject new postings
	AuditFields
}
