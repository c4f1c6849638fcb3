package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	portssvc "github.com/notcool100/astrofinance-ledger/internal/core/ports/services"
)

// auditService records staff actions into the audit trail.
type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{
		auditRepo: auditRepo,
	}
}

// Ensure auditService implements the portssvc.AuditSvcFacade interface
var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// RecordAction persists one audit record. Failures are logged and swallowed:
// the audit trail must never fail the operation it documents.
func (s *auditService) RecordAction(ctx context.Context, record domain.AuditRecord) {
	if record.AuditID == "" {
		record.AuditID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if err := s.auditRepo.SaveAuditRecord(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to save audit record",
			slog.String("entity_type", record.EntityType),
			slog.String("entity_id", record.EntityID),
			slog.String("action", record.Action))
		return
	}

	s.LogDebug(ctx, "Audit record saved",
		slog.String("entity_type", record.EntityType),
		slog.String("entity_id", record.EntityID),
		slog.String("action", record.Action))
}

// ListByEntity retrieves the audit trail for one entity, newest first.
func (s *auditService) ListByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	records, err := s.auditRepo.ListAuditRecordsByEntity(ctx, entityType, entityID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit records by entity",
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID))
		return nil, err
	}

	if records == nil {
		return []domain.AuditRecord{}, nil
	}
	return records, nil
}

// ListByStaff retrieves actions performed by a staff user in a time range.
func (s *auditService) ListByStaff(ctx context.Context, staffID string, from time.Time, to time.Time, limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	records, err := s.auditRepo.ListAuditRecordsByStaff(ctx, staffID, from, to, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit records by staff",
			slog.String("staff_id", staffID))
		return nil, err
	}

	if records == nil {
		return []domain.AuditRecord{}, nil
	}
	return records, nil
}
