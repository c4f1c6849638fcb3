package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
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

type PgxUserAccountRepository struct {
	BaseRepository
}

// newPgxUserAccountRepository creates a new repository for customer deposit accounts.
func newPgxUserAccountRepository(pool *pgxpool.Pool) portsrepo.UserAccountRepositoryFacade {
	return &PgxUserAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserAccountRepository implements portsrepo.UserAccountRepositoryFacade
var _ portsrepo.UserAccountRepositoryFacade = (*PgxUserAccountRepository)(nil)

const userAccountColumns = `user_account_id, account_number, holder_name, account_type, balance, interest_rate, status, opening_date, last_transaction_date, created_at, created_by, last_updated_at, last_updated_by`

func scanUserAccount(row rowScanner) (models.UserAccount, error) {
	var m models.UserAccount
	err := row.Scan(
		&m.UserAccountID,
		&m.AccountNumber,
		&m.HolderName,
		&m.AccountType,
		&m.Balance,
		&m.InterestRate,
		&m.Status,
		&m.OpeningDate,
		&m.LastTransactionDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.UserAccount{}, err
	}
	return m, nil
}

// SaveUserAccount inserts a new user account.
func (r *PgxUserAccountRepository) SaveUserAccount(ctx context.Context, account domain.UserAccount) error {
	m := mapping.ToModelUserAccount(account)

	query := `
		INSERT INTO user_accounts (` + userAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`

	_, err := r.Pool.Exec(ctx, query,
		m.UserAccountID,
		m.AccountNumber,
		m.HolderName,
		m.AccountType,
		m.Balance,
		m.InterestRate,
		m.Status,
		m.OpeningDate,
		m.LastTransactionDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: user account with number %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return fmt.Errorf("failed to save user account %s: %w", m.UserAccountID, err)
	}
	return nil
}

// FindUserAccountByID retrieves a user account by its ID.
func (r *PgxUserAccountRepository) FindUserAccountByID(ctx context.Context, userAccountID string) (*domain.UserAccount, error) {
	query := `SELECT ` + userAccountColumns + ` FROM user_accounts WHERE user_account_id = $1;`

	m, err := scanUserAccount(r.Pool.QueryRow(ctx, query, userAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user account by ID %s: %w", userAccountID, err)
	}

	d := mapping.ToDomainUserAccount(m)
	return &d, nil
}

// FindUserAccountByNumber retrieves a user account by its account number.
func (r *PgxUserAccountRepository) FindUserAccountByNumber(ctx context.Context, accountNumber string) (*domain.UserAccount, error) {
	query := `SELECT ` + userAccountColumns + ` FROM user_accounts WHERE account_number = $1;`

	m, err := scanUserAccount(r.Pool.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user account by number %s: %w", accountNumber, err)
	}

	d := mapping.ToDomainUserAccount(m)
	return &d, nil
}

// ListUserAccounts retrieves a paginated list of user accounts ordered by
// account number, optionally filtered by status.
func (r *PgxUserAccountRepository) ListUserAccounts(ctx context.Context, status *domain.UserAccountStatus, limit int, offset int) ([]domain.UserAccount, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + userAccountColumns + ` FROM user_accounts`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY account_number LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.UserAccount{}
	for rows.Next() {
		m, err := scanUserAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainUserAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user account rows: %w", err)
	}

	return accounts, nil
}

// UpdateUserAccountDetails updates the holder name and interest rate of an
// account. Balance is deliberately not touched here; it changes only through
// the transaction processor.
func (r *PgxUserAccountRepository) UpdateUserAccountDetails(ctx context.Context, account domain.UserAccount) error {
	m := mapping.ToModelUserAccount(account)

	query := `
		UPDATE user_accounts
		SET holder_name = $2, interest_rate = $3, last_updated_at = $4, last_updated_by = $5
		WHERE user_account_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		m.UserAccountID,
		m.HolderName,
		m.InterestRate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update user account %s: %w", m.UserAccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// UpdateUserAccountStatus transitions a user account to a new status.
func (r *PgxUserAccountRepository) UpdateUserAccountStatus(ctx context.Context, userAccountID string, status domain.UserAccountStatus, staffID string, now time.Time) error {
	query := `
		UPDATE user_accounts
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_account_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, userAccountID, string(status), now, staffID)
	if err != nil {
		return fmt.Errorf("failed to execute status update for user account %s: %w", userAccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
