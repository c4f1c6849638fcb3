package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	"github.com/notcool100/astrofinance-ledger/internal/models"
	"github.com/notcool100/astrofinance-ledger/internal/utils/mapping"
)

type PgxStaffRepository struct {
	BaseRepository
}

// newPgxStaffRepository creates a new repository for staff users.
func newPgxStaffRepository(pool *pgxpool.Pool) portsrepo.StaffRepositoryFacade {
	return &PgxStaffRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxStaffRepository implements portsrepo.StaffRepositoryFacade
var _ portsrepo.StaffRepositoryFacade = (*PgxStaffRepository)(nil)

const staffColumns = `staff_id, name, email, password_hash, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanStaff(row rowScanner) (models.Staff, error) {
	var m models.Staff
	err := row.Scan(
		&m.StaffID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Staff{}, err
	}
	return m, nil
}

// SaveStaff inserts a new staff user.
func (r *PgxStaffRepository) SaveStaff(ctx context.Context, staff domain.Staff) error {
	m := mapping.ToModelStaff(staff)

	query := `
		INSERT INTO staff (` + staffColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	_, err := r.Pool.Exec(ctx, query,
		m.StaffID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: staff with email %s already exists", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save staff %s: %w", m.StaffID, err)
	}
	return nil
}

// FindStaffByID retrieves a staff user by their ID.
func (r *PgxStaffRepository) FindStaffByID(ctx context.Context, staffID string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE staff_id = $1;`

	m, err := scanStaff(r.Pool.QueryRow(ctx, query, staffID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staff by ID %s: %w", staffID, err)
	}

	d := mapping.ToDomainStaff(m)
	return &d, nil
}

// FindStaffByEmail retrieves a staff user by email. Email comparison is
// case-insensitive since logins arrive in whatever case the operator typed.
func (r *PgxStaffRepository) FindStaffByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE LOWER(email) = LOWER($1);`

	m, err := scanStaff(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find staff by email: %w", err)
	}

	d := mapping.ToDomainStaff(m)
	return &d, nil
}

// ListStaff retrieves a paginated list of staff users ordered by name.
func (r *PgxStaffRepository) ListStaff(ctx context.Context, limit int, offset int) ([]domain.Staff, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY name LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	staffList := []domain.Staff{}
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff row: %w", err)
		}
		staffList = append(staffList, mapping.ToDomainStaff(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff rows: %w", err)
	}

	return staffList, nil
}

// UpdateStaff updates a staff user's name, password hash and active flag.
func (r *PgxStaffRepository) UpdateStaff(ctx context.Context, staff domain.Staff) error {
	m := mapping.ToModelStaff(staff)

	query := `
		UPDATE staff
		SET name = $2, password_hash = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE staff_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.StaffID,
		m.Name,
		m.PasswordHash,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update staff %s: %w", m.StaffID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
