package models

import (
	"encoding/json"
	"time"
)

// AuditRecord represents one row of the append-only audit trail.
type AuditRecord struct {
	AuditID     string          `db:"audit_id"`
	EntityType  string          `db:"entity_type"`
	EntityID    string          `db:"entity_id"`
	Action      string          `db:"action"`
	Before      json.RawMessage `db:"before_state"` // Nullable
	After       json.RawMessage `db:"after_state"`  // Nullable
	PerformedBy string          `db:"performed_by"`
	CreatedAt   time.Time       `db:"created_at"`
}
