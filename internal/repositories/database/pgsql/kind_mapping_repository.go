package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	"github.com/notcool100/astrofinance-ledger/internal/models"
	"github.com/notcool100/astrofinance-ledger/internal/utils/mapping"
)

type PgxKindMappingRepository struct {
	BaseRepository
}

// newPgxKindMappingRepository creates a new repository for kind-to-account mappings.
func newPgxKindMappingRepository(pool *pgxpool.Pool) portsrepo.KindMappingRepositoryFacade {
	return &PgxKindMappingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxKindMappingRepository implements portsrepo.KindMappingRepositoryFacade
var _ portsrepo.KindMappingRepositoryFacade = (*PgxKindMappingRepository)(nil)

const kindMappingColumns = `mapping_id, kind, debit_account_code, credit_account_code, description, created_at, created_by, last_updated_at, last_updated_by`

func scanKindMapping(row rowScanner) (models.KindMapping, error) {
	var m models.KindMapping
	err := row.Scan(
		&m.MappingID,
		&m.Kind,
		&m.DebitAccountCode,
		&m.CreditAccountCode,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.KindMapping{}, err
	}
	return m, nil
}

// FindMappingByKind retrieves the posting mapping configured for a transaction kind.
func (r *PgxKindMappingRepository) FindMappingByKind(ctx context.Context, kind domain.TransactionKind) (*domain.KindMapping, error) {
	query := `SELECT ` + kindMappingColumns + ` FROM kind_mappings WHERE kind = $1;`

	m, err := scanKindMapping(r.Pool.QueryRow(ctx, query, string(kind)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find mapping for kind %s: %w", kind, err)
	}

	d := mapping.ToDomainKindMapping(m)
	return &d, nil
}

// ListMappings retrieves all configured kind mappings ordered by kind.
func (r *PgxKindMappingRepository) ListMappings(ctx context.Context) ([]domain.KindMapping, error) {
	query := `SELECT ` + kindMappingColumns + ` FROM kind_mappings ORDER BY kind;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query kind mappings: %w", err)
	}
	defer rows.Close()

	mappings := []domain.KindMapping{}
	for rows.Next() {
		m, err := scanKindMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kind mapping row: %w", err)
		}
		mappings = append(mappings, mapping.ToDomainKindMapping(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating kind mapping rows: %w", err)
	}

	return mappings, nil
}

// SaveMapping inserts the mapping for a kind, or replaces the routing of an
// existing one. The upsert keys on kind so each kind has exactly one row.
func (r *PgxKindMappingRepository) SaveMapping(ctx context.Context, kindMapping domain.KindMapping) error {
	m := mapping.ToModelKindMapping(kindMapping)

	query := `
		INSERT INTO kind_mappings (` + kindMappingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (kind) DO UPDATE
		SET debit_account_code = EXCLUDED.debit_account_code,
			credit_account_code = EXCLUDED.credit_account_code,
			description = EXCLUDED.description,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`

	_, err := r.Pool.Exec(ctx, query,
		m.MappingID,
		m.Kind,
		m.DebitAccountCode,
		m.CreditAccountCode,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save mapping for kind %s: %w", m.Kind, err)
	}
	return nil
}
