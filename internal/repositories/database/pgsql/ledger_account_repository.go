package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notcool100/astrofinance-ledger/internal/apperrors"
	"github.com/notcool100/astrofinance-ledger/internal/core/domain"
	portsrepo "github.com/notcool100/astrofinance-ledger/internal/core/ports/repositories"
	"github.com/notcool100/astrofinance-ledger/internal/models"
	"github.com/notcool100/astrofinance-ledger/internal/utils/mapping"
)

type PgxLedgerAccountRepository struct {
	BaseRepository
}

// newPgxLedgerAccountRepository creates a new repository for chart-of-accounts data.
func newPgxLedgerAccountRepository(pool *pgxpool.Pool) portsrepo.LedgerAccountRepositoryFacade {
	return &PgxLedgerAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerAccountRepository implements portsrepo.LedgerAccountRepositoryFacade
var _ portsrepo.LedgerAccountRepositoryFacade = (*PgxLedgerAccountRepository)(nil)

const ledgerAccountColumns = `account_id, code, name, account_type, parent_account_id, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

// rowScanner abstracts pgx.Row and pgx.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanLedgerAccount(row rowScanner) (models.LedgerAccount, error) {
	var m models.LedgerAccount
	var parentID sql.NullString
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&parentID,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.LedgerAccount{}, err
	}
	if parentID.Valid {
		m.ParentAccountID = parentID.String
	}
	return m, nil
}

// SaveAccount inserts a new ledger account.
func (r *PgxLedgerAccountRepository) SaveAccount(ctx context.Context, account domain.LedgerAccount) error {
	m := mapping.ToModelLedgerAccount(account)

	query := `
		INSERT INTO ledger_accounts (` + ledgerAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	var parentID sql.NullString
	if m.ParentAccountID != "" {
		parentID = sql.NullString{String: m.ParentAccountID, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		parentID,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: ledger account with code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save ledger account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves a ledger account by its ID.
func (r *PgxLedgerAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	query := `SELECT ` + ledgerAccountColumns + ` FROM ledger_accounts WHERE account_id = $1;`

	m, err := scanLedgerAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger account by ID %s: %w", accountID, err)
	}

	d := mapping.ToDomainLedgerAccount(m)
	return &d, nil
}

// FindAccountByCode retrieves a ledger account by its business code.
func (r *PgxLedgerAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error) {
	query := `SELECT ` + ledgerAccountColumns + ` FROM ledger_accounts WHERE code = $1;`

	m, err := scanLedgerAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger account by code %s: %w", code, err)
	}

	d := mapping.ToDomainLedgerAccount(m)
	return &d, nil
}

// FindAccountByNameFuzzy retrieves the best case-insensitive match for a name.
// Exact name matches rank before substring matches.
func (r *PgxLedgerAccountRepository) FindAccountByNameFuzzy(ctx context.Context, text string) (*domain.LedgerAccount, error) {
	query := `
		SELECT ` + ledgerAccountColumns + `
		FROM ledger_accounts
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY (LOWER(name) = LOWER($1)) DESC, name
		LIMIT 1;
	`

	m, err := scanLedgerAccount(r.Pool.QueryRow(ctx, query, text))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger account by name %q: %w", text, err)
	}

	d := mapping.ToDomainLedgerAccount(m)
	return &d, nil
}

// FindAccountsByCodes retrieves multiple ledger accounts keyed by code.
// Missing codes are simply absent from the map; the caller decides whether
// that is an error.
func (r *PgxLedgerAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.LedgerAccount, error) {
	if len(codes) == 0 {
		return map[string]domain.LedgerAccount{}, nil
	}

	query := `SELECT ` + ledgerAccountColumns + ` FROM ledger_accounts WHERE code = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger accounts by codes: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.LedgerAccount)
	for rows.Next() {
		m, err := scanLedgerAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger account row during batch fetch: %w", err)
		}
		accountsMap[m.Code] = mapping.ToDomainLedgerAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger account rows during batch fetch: %w", err)
	}

	return accountsMap, nil
}

// ListAccounts retrieves a paginated list of ledger accounts ordered by code.
func (r *PgxLedgerAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.LedgerAccount, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + ledgerAccountColumns + `
		FROM ledger_accounts
		ORDER BY code
		LIMIT $1 OFFSET $2;
	`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.LedgerAccount{}
	for rows.Next() {
		m, err := scanLedgerAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainLedgerAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger account rows: %w", err)
	}

	return accounts, nil
}

// UpdateAccount updates mutable details of an existing ledger account.
// Code and account_type are immutable once created.
func (r *PgxLedgerAccountRepository) UpdateAccount(ctx context.Context, account domain.LedgerAccount) error {
	m := mapping.ToModelLedgerAccount(account)

	query := `
		UPDATE ledger_accounts
		SET name = $2, description = $3, last_updated_at = $4, last_updated_by = $5
		WHERE account_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update ledger account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeactivateAccount marks a ledger account as inactive.
func (r *PgxLedgerAccountRepository) DeactivateAccount(ctx context.Context, accountID string, staffID string, now time.Time) error {
	query := `
		UPDATE ledger_accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now, staffID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate ledger account %s: %w", accountID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the account doesn't exist or it was already inactive.
		_, findErr := r.FindAccountByID(ctx, accountID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check ledger account status after deactivation attempt for %s: %w", accountID, findErr)
		}
		return apperrors.ErrValidation
	}

	return nil
}
