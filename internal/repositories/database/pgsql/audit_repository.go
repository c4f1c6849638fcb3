package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	"github.com/notcool100/astrofinance-ledger/internal/models"
	"github.com/notcool100/astrofinance-ledger/internal/utils/mapping"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the append-only audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

const auditRecordColumns = `audit_id, entity_type, entity_id, action, before_state, after_state, performed_by, created_at`

func scanAuditRecord(row rowScanner) (models.AuditRecord, error) {
	var m models.AuditRecord
	err := row.Scan(
		&m.AuditID,
		&m.EntityType,
		&m.EntityID,
		&m.Action,
		&m.Before,
		&m.After,
		&m.PerformedBy,
		&m.CreatedAt,
	)
	if err != nil {
		return models.AuditRecord{}, err
	}
	return m, nil
}

// SaveAuditRecord inserts one audit record. Records are never updated or deleted.
func (r *PgxAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	m := mapping.ToModelAuditRecord(record)

	query := `
		INSERT INTO audit_records (` + auditRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err := r.Pool.Exec(ctx, query,
		m.AuditID,
		m.EntityType,
		m.EntityID,
		m.Action,
		m.Before,
		m.After,
		m.PerformedBy,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit record for %s %s: %w", m.EntityType, m.EntityID, err)
	}
	return nil
}

// ListAuditRecordsByEntity retrieves the audit trail for one entity, newest first.
func (r *PgxAuditRepository) ListAuditRecordsByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + auditRecordColumns + `
		FROM audit_records
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3;
	`

	rows, err := r.Pool.Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records for %s %s: %w", entityType, entityID, err)
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		m, err := scanAuditRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record row: %w", err)
		}
		records = append(records, mapping.ToDomainAuditRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit record rows: %w", err)
	}

	return records, nil
}

// ListAuditRecordsByStaff retrieves the actions a staff user performed within
// a time range, newest first.
func (r *PgxAuditRepository) ListAuditRecordsByStaff(ctx context.Context, staffID string, from time.Time, to time.Time, limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + auditRecordColumns + `
		FROM audit_records
		WHERE performed_by = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
		LIMIT $4;
	`

	rows, err := r.Pool.Query(ctx, query, staffID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records for staff %s: %w", staffID, err)
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		m, err := scanAuditRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record row: %w", err)
		}
		records = append(records, mapping.ToDomainAuditRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit record rows: %w", err)
	}

	return records, nil
}
