package models

// Staff represents a back-office operator row.
type Staff struct {
	StaffID      string `db:"staff_id"`
	Name         string `db:"name"`
	Email        string `db:"email"` // Unique
	PasswordHash string `db:"password_hash"`
	IsActive     bool   `db:"is_active"`
	AuditFields
}
