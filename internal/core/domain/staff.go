package domain

// Staff is a back-office operator. Identity and permission management live
// outside this subsystem; staff rows exist so the login endpoint can mint
// tokens and audit fields can reference a real actor.
type Staff struct {
	StaffID      string `json:"staffID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Email        string `json:"email"` // Unique login key
	PasswordHash string `json:"-"`     // bcrypt, never serialized
	IsActive     bool   `json:"isActive"`
	AuditFields
}
