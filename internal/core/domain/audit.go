package domain

import (
	"encoding/json"
	"time"
)

// AuditRecord is one fire-and-forget entry in the audit trail: who did what
// to which entity, with before/after snapshots. Sink failures never fail the
// operation being audited.
type AuditRecord struct {
	AuditID     string          `json:"auditID"` // Primary Key (UUID)
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityID"`
	Action      string          `json:"action"`
	Before      json.RawMessage `json:"before,omitempty"`
	After       json.RawMessage `json:"after,omitempty"`
	PerformedBy string          `json:"performedBy"` // StaffID
	CreatedAt   time.Time       `json:"createdAt"`
}

// Audit actions recorded by this subsystem.
const (
	AuditActionCreate    = "CREATE"
	AuditActionUpdate    = "UPDATE"
	AuditActionApply     = "APPLY"
	AuditActionReverse   = "REVERSE"
	AuditActionReconcile = "RECONCILE"
	AuditActionClose     = "CLOSE"
)
