package repositories

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// AuditWriter defines write operations for the audit trail
type AuditWriter interface {
	// SaveAuditRecord persists one audit record.
	SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error
}

// AuditReader defines read operations for the audit trail
type AuditReader interface {
	// ListAuditRecordsByEntity retrieves the audit trail for one entity,
	// newest first.
	ListAuditRecordsByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error)

	// ListAuditRecordsByStaff retrieves actions performed by a staff user in
	// a time range, newest first.
	ListAuditRecordsByStaff(ctx context.Context, staffID string, from time.Time, to time.Time, limit int) ([]domain.AuditRecord, error)
}

// AuditRepositoryFacade combines all audit repository interfaces
type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}
