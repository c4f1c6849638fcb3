package services

import (
	"context"
	"time"

	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
)

// AuditSvcFacade defines the audit trail operations. Recording never fails
// the business operation that triggered it; sink errors are logged and
// swallowed.
type AuditSvcFacade interface {
	// RecordAction persists one audit record for a staff action.
	RecordAction(ctx context.Context, record domain.AuditRecord)

	// ListByEntity retrieves the audit trail for one entity, newest first.
	ListByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error)

	// ListByStaff retrieves actions performed by a staff user in a time range.
	ListByStaff(ctx context.Context, staffID string, from time.Time, to time.Time, limit int) ([]domain.AuditRecord, error)
}
