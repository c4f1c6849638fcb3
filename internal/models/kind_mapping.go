package models

// KindMapping represents the stored account routing for a transaction kind.
type KindMapping struct {
	MappingID         string `db:"mapping_id"`
	Kind              string `db:"kind"` // Unique
	DebitAccountCode  string `db:"debit_account_code"`
	CreditAccountCode string `db:"credit_account_code"`
	Description       string `db:"description"`
	AuditFields
}
